package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/rasoi-labs/rasoi/internal/ai"
	"github.com/rasoi-labs/rasoi/internal/auth"
	"github.com/rasoi-labs/rasoi/internal/config"
	"github.com/rasoi-labs/rasoi/internal/localstore"
	"github.com/rasoi-labs/rasoi/internal/remote"
	"github.com/rasoi-labs/rasoi/internal/session"
	"github.com/rasoi-labs/rasoi/internal/store"
	"github.com/rasoi-labs/rasoi/internal/tui/components"
	"github.com/rasoi-labs/rasoi/internal/tui/themes"
)

// app bundles the wired application services every command builds on.
type app struct {
	kv        *localstore.KV
	queue     *remote.Queue
	store     *store.Store
	auth      *auth.Client
	session   *session.Manager
	formatter *components.CurrencyFormatter
	theme     themes.Theme
}

// newApp wires local storage, the identity client, the remote mirror, and the
// in-memory store, then loads persisted state. Callers must Close it.
func newApp(ctx context.Context) (*app, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = filepath.Join(config.DataDir(), "rasoi.db")
	}
	dbPath = config.ExpandPath(dbPath)

	kv, err := localstore.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}
	persister := localstore.NewPersister(kv)

	authClient := auth.NewClient(
		viper.GetString("remote.url"),
		viper.GetString("remote.anon_key"),
		filepath.Join(config.DataDir(), "session.json"),
	)

	remoteClient := remote.NewClient(
		viper.GetString("remote.url"),
		viper.GetString("remote.anon_key"),
		func() (remote.Session, bool) {
			sess, ok := authClient.GetSession()
			if !ok {
				return remote.Session{}, false
			}
			return remote.Session{UserID: sess.UserID, AccessToken: sess.AccessToken}, true
		},
	)
	collections := remote.NewCollections(remoteClient)
	queue := remote.NewQueue(viper.GetInt("sync.queue_buffer"))
	syncer := remote.NewSyncer(collections, queue)

	st := store.New(persister, syncer)
	st.LoadLocal(ctx, persister)

	formatter, err := components.NewCurrencyFormatter(
		viper.GetString("display.locale"),
		viper.GetString("display.currency"),
	)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	return &app{
		kv:        kv,
		queue:     queue,
		store:     st,
		auth:      authClient,
		session:   session.NewManager(authClient, collections, st),
		formatter: formatter,
		theme:     themes.GetTheme(st.Theme()),
	}, nil
}

// Close drains queued remote writes and releases the local database.
func (a *app) Close() {
	a.queue.Close()
	_ = a.kv.Close()
}

// newPlanner builds the AI planner from configuration. Split from newApp so
// commands that never touch the AI work without an API key.
func newPlanner() (*ai.Planner, error) {
	provider := viper.GetString("ai.provider")
	apiKey := viper.GetString("ai.api_key")
	if apiKey == "" {
		// Environment variables as fallback
		if provider == "openai" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		} else {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	client, err := ai.NewClient(ai.Config{
		Provider:    provider,
		APIKey:      apiKey,
		Model:       viper.GetString("ai.model"),
		Temperature: viper.GetFloat64("ai.temperature"),
	})
	if err != nil {
		return nil, err
	}
	return ai.NewPlanner(client), nil
}
