package components

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoi-labs/rasoi/internal/ai"
	"github.com/rasoi-labs/rasoi/internal/common"
	"github.com/rasoi-labs/rasoi/internal/model"
	"github.com/rasoi-labs/rasoi/internal/tui/themes"
)

func newTestResult(t *testing.T) ResultModel {
	t.Helper()
	formatter, err := NewCurrencyFormatter("en-IN", "INR")
	require.NoError(t, err)
	return NewResult(themes.Default, formatter)
}

func groceryResult() *ai.Result {
	return &ai.Result{
		Grocery: &model.GroceryList{
			TotalBudget:    decimal.NewFromInt(3000),
			EstimatedTotal: decimal.NewFromInt(2835),
			Items: []model.GroceryItem{
				{
					Name:       "Rice (Sona Masoori)",
					Quantity:   "5 kg",
					ApproxCost: decimal.NewFromInt(390),
					Category:   "Grains",
					PriceComparison: []model.VendorPrice{
						{Vendor: "Local Kirana", Price: decimal.NewFromInt(390), QualityNotes: "Best price for loose rice."},
						{Vendor: "BigBasket", Price: decimal.NewFromInt(410), URL: "https://www.bigbasket.com/pd/40011218/"},
					},
				},
				{
					Name:       "Toor Dal",
					Quantity:   "2 kg",
					ApproxCost: decimal.NewFromInt(340),
					Category:   "Pulses",
					PriceComparison: []model.VendorPrice{
						{Vendor: "DMart", Price: decimal.NewFromInt(340)},
					},
				},
			},
		},
	}
}

func TestToggleSameIndexCollapses(t *testing.T) {
	m := newTestResult(t)
	m.SetResult(groceryResult())

	m.Toggle(0)
	assert.Equal(t, 0, m.Expanded())
	m.Toggle(0)
	assert.Equal(t, -1, m.Expanded())
}

func TestToggleOtherIndexMovesExpansion(t *testing.T) {
	m := newTestResult(t)
	m.SetResult(groceryResult())

	m.Toggle(0)
	m.Toggle(1)
	assert.Equal(t, 1, m.Expanded())
}

func TestToggleOutOfRangeIsIgnored(t *testing.T) {
	m := newTestResult(t)
	m.SetResult(groceryResult())

	m.Toggle(7)
	assert.Equal(t, -1, m.Expanded())
}

func TestGroceryViewShowsFormattedTotals(t *testing.T) {
	m := newTestResult(t)
	m.SetResult(groceryResult())

	view := m.View()
	assert.Contains(t, view, "Total Budget")
	assert.Contains(t, view, "₹3,000")
	assert.Contains(t, view, "Estimated Total")
	assert.Contains(t, view, "₹2,835")
	assert.Contains(t, view, "Rice (Sona Masoori)")
	// Collapsed rows hide the comparison details.
	assert.NotContains(t, view, "Price Comparison")
}

func TestExpandedItemShowsVendorRows(t *testing.T) {
	m := newTestResult(t)
	m.SetResult(groceryResult())
	m.Toggle(0)

	view := m.View()
	assert.Contains(t, view, "Price Comparison")
	assert.Contains(t, view, "Local Kirana")
	assert.Contains(t, view, "Best price for loose rice.")
	// URL suppressed for Local Kirana, present for BigBasket.
	assert.NotContains(t, view, "Shop on Local Kirana")
	assert.Contains(t, view, "Shop on BigBasket")
	assert.Contains(t, view, "must be verified")
}

func TestVendorWithoutNotesSuppressesNote(t *testing.T) {
	m := newTestResult(t)
	m.SetResult(groceryResult())
	m.Toggle(1)

	view := m.View()
	assert.Contains(t, view, "DMart")
	assert.NotContains(t, view, "“”")
}

func TestSkeletonShownOnlyWhileLoadingWithoutResult(t *testing.T) {
	m := newTestResult(t)
	m.SetLoading(true)

	view := m.View()
	assert.Contains(t, view, "░")
	assert.NotContains(t, view, "Total Budget")

	// A previous result keeps rendering during a refresh.
	m.SetResult(groceryResult())
	m.SetLoading(true)
	assert.Contains(t, m.View(), "Rice (Sona Masoori)")
}

func TestGenericDocumentRendersSectionsInOrder(t *testing.T) {
	m := newTestResult(t)
	doc, err := ai.ParseValue([]byte(`{"weekly_summary":"All good","savings_rate":42}`))
	require.NoError(t, err)
	m.SetResult(&ai.Result{Doc: doc})

	view := m.View()
	assert.Contains(t, view, "Weekly summary")
	assert.Contains(t, view, "All good")
	assert.Contains(t, view, "Savings rate")
	assert.Less(t, strings.Index(view, "Weekly summary"), strings.Index(view, "Savings rate"))
}

func TestErrorRendersUserMessage(t *testing.T) {
	m := newTestResult(t)
	m.SetError(common.NewUserError("The service is unavailable.", common.ErrAIService))
	assert.Contains(t, m.View(), "The service is unavailable.")
}

func TestFormatKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"total_budget", "Total budget"},
		{"one_page_readme", "One page readme"},
		{"price-comparison", "Price comparison"},
		{"name", "Name"},
		{"", ""},
		// Multi-byte first runes must not be split mid-rune.
		{"चावल_की_कीमत", "चावल की कीमत"},
		{"émigré_fund", "Émigré fund"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatKey(tt.in), tt.in)
	}
}
