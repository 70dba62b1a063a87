package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoi-labs/rasoi/internal/common"
	"github.com/rasoi-labs/rasoi/internal/model"
)

type stubClient struct {
	response string
	err      error
	lastReq  Request
}

func (s *stubClient) Generate(_ context.Context, req Request) (string, error) {
	s.lastReq = req
	return s.response, s.err
}

const groceryJSON = `{
  "total_budget": 3000,
  "estimated_total": 2835,
  "items": [
    {
      "name": "Rice (Sona Masoori)",
      "quantity": "5 kg",
      "approx_cost": 390,
      "category": "Grains",
      "price_comparison": [
        {"vendor": "Local Kirana", "price": 390, "url": "", "quality_notes": "Best price for loose rice."},
        {"vendor": "BigBasket", "price": 410, "url": "https://www.bigbasket.com/pd/40011218/", "quality_notes": "Check for bank offers."}
      ]
    }
  ]
}`

func TestAskParsesGroceryShape(t *testing.T) {
	client := &stubClient{response: groceryJSON}
	planner := NewPlanner(client)

	result, err := planner.Ask(context.Background(), "weekly groceries")
	require.NoError(t, err)

	require.NotNil(t, result.Grocery)
	assert.True(t, decimal.NewFromInt(3000).Equal(result.Grocery.TotalBudget))
	assert.True(t, decimal.NewFromInt(2835).Equal(result.Grocery.EstimatedTotal))
	require.Len(t, result.Grocery.Items, 1)
	item := result.Grocery.Items[0]
	assert.Equal(t, "Rice (Sona Masoori)", item.Name)
	require.Len(t, item.PriceComparison, 2)
	assert.Equal(t, "Local Kirana", item.PriceComparison[0].Vendor)

	// The structured document is available too.
	assert.Equal(t, KindMap, result.Doc.Kind)

	assert.True(t, client.lastReq.JSONResponse)
	assert.NotEmpty(t, client.lastReq.SystemInstruction)
}

func TestAskStripsMarkdownFence(t *testing.T) {
	client := &stubClient{response: "```json\n" + groceryJSON + "\n```"}
	planner := NewPlanner(client)

	result, err := planner.Ask(context.Background(), "weekly groceries")
	require.NoError(t, err)
	require.NotNil(t, result.Grocery)
}

func TestAskGenericDocumentHasNoGroceryList(t *testing.T) {
	client := &stubClient{response: `{"one_page_readme":"# Rasoi","architecture_diagram":"flow"}`}
	planner := NewPlanner(client)

	result, err := planner.Ask(context.Background(), "describe the system")
	require.NoError(t, err)
	assert.Nil(t, result.Grocery)
	assert.Equal(t, []string{"one_page_readme", "architecture_diagram"}, result.Doc.Keys)
}

func TestAskClassifiesParseFailure(t *testing.T) {
	client := &stubClient{response: "I would love to help, but..."}
	planner := NewPlanner(client)

	_, err := planner.Ask(context.Background(), "weekly groceries")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrAIParse))
	assert.Contains(t, common.UserMessage(err), "invalid response")
}

func TestAskClassifiesServiceFailure(t *testing.T) {
	client := &stubClient{err: fmt.Errorf("%w: status 429", common.ErrAIService)}
	planner := NewPlanner(client)

	_, err := planner.Ask(context.Background(), "weekly groceries")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrAIService))
	assert.Contains(t, common.UserMessage(err), "temporarily unavailable")
}

func TestAskClassifiesUnknownFailure(t *testing.T) {
	client := &stubClient{err: errors.New("something odd")}
	planner := NewPlanner(client)

	_, err := planner.Ask(context.Background(), "weekly groceries")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrAIUnknown))
	assert.False(t, errors.Is(err, common.ErrAIService))
}

func TestPlannerQueryIncludesProfileFields(t *testing.T) {
	query := PlannerQuery(model.UserProfile{
		FamilySize:       "4",
		Diet:             "Non-Vegetarian",
		Budget:           "5000",
		NutritionalFocus: "High Protein",
	})
	assert.Contains(t, query, "Budget: ₹5000")
	assert.Contains(t, query, "Family Size: 4")
	assert.Contains(t, query, "Diet: Non-Vegetarian")
	assert.Contains(t, query, "Nutritional Focus: High Protein")
}

func TestNewClientRejectsUnknownProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "llama-at-home", APIKey: "k"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{Provider: "gemini"})
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
