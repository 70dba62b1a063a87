package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavedPlan is a grocery plan the user chose to keep. Unlike transactions,
// plans are updatable in place (matched by id) and deletable by id.
type SavedPlan struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Title          string          `json:"title"`
	TotalBudget    decimal.Decimal `json:"total_budget"`
	EstimatedTotal decimal.Decimal `json:"estimated_total"`
	Items          []GroceryItem   `json:"items"`
	Notes          string          `json:"notes,omitempty"`
}

// NewSavedPlan stamps a plan with a fresh id and today's date.
func NewSavedPlan(title string, list GroceryList) SavedPlan {
	return SavedPlan{
		ID:             NewID(),
		Date:           time.Now().Format(DateFormat),
		Title:          title,
		TotalBudget:    list.TotalBudget,
		EstimatedTotal: list.EstimatedTotal,
		Items:          list.Items,
	}
}

// List converts the plan back to the grocery-list shape for rendering.
func (p SavedPlan) List() GroceryList {
	return GroceryList{
		TotalBudget:    p.TotalBudget,
		EstimatedTotal: p.EstimatedTotal,
		Items:          p.Items,
	}
}
