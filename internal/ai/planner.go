package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rasoi-labs/rasoi/internal/common"
	"github.com/rasoi-labs/rasoi/internal/model"
)

// Result is a parsed planner response. Grocery is set when the document has
// the grocery-list shape (an "items" array); Doc always holds the full
// structured document for generic rendering.
type Result struct {
	Raw     string
	Doc     Value
	Grocery *model.GroceryList
}

// Planner runs grocery-planning and free-form queries against a provider and
// classifies failures so the UI can tell "retry now" from "retry later".
type Planner struct {
	client      Client
	temperature float64
}

// NewPlanner wraps a provider client.
func NewPlanner(client Client) *Planner {
	return &Planner{client: client, temperature: 0.3}
}

// Ask sends a free-text query and parses the structured response.
// Service failures surface as ErrAIService, malformed payloads as
// ErrAIParse, anything else as ErrAIUnknown.
func (p *Planner) Ask(ctx context.Context, query string) (Result, error) {
	raw, err := p.client.Generate(ctx, Request{
		Prompt:            query,
		SystemInstruction: groceryPlannerSystemInstruction,
		Temperature:       p.temperature,
		JSONResponse:      true,
	})
	if err != nil {
		if errors.Is(err, common.ErrAIService) {
			return Result{}, common.NewUserError(
				"Failed to get a response from the AI. The service may be temporarily unavailable or there might be a network issue.", err)
		}
		return Result{}, common.NewUserError(
			"An unexpected error occurred while communicating with the AI.",
			fmt.Errorf("%w: %w", common.ErrAIUnknown, err))
	}

	return p.parse(raw)
}

// PlanGroceries runs the planner for a profile.
func (p *Planner) PlanGroceries(ctx context.Context, profile model.UserProfile) (Result, error) {
	return p.Ask(ctx, PlannerQuery(profile))
}

func (p *Planner) parse(raw string) (Result, error) {
	cleaned := cleanMarkdownWrapper(raw)

	doc, err := ParseValue([]byte(cleaned))
	if err != nil {
		return Result{}, common.NewUserError(
			"The AI returned an invalid response that could not be parsed. Please try again.",
			fmt.Errorf("%w: %w", common.ErrAIParse, err))
	}

	result := Result{Raw: cleaned, Doc: doc}

	// The grocery shape is recognized by its "items" array; other documents
	// stay generic.
	if items, ok := doc.Get("items"); ok && items.Kind == KindList {
		var list model.GroceryList
		if err := json.Unmarshal([]byte(cleaned), &list); err != nil {
			return Result{}, common.NewUserError(
				"The AI returned an invalid response that could not be parsed. Please try again.",
				fmt.Errorf("%w: grocery list decode: %w", common.ErrAIParse, err))
		}
		result.Grocery = &list
	}

	return result, nil
}
