package model

import "github.com/google/uuid"

// NewID returns a collision-safe identifier for client-created entities.
// Wall-clock timestamps are not unique under rapid sequential creation, so
// ids are random UUIDs instead.
func NewID() string {
	return uuid.NewString()
}
