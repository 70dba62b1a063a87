package model

import "github.com/shopspring/decimal"

// VendorPrice is one vendor's quote for a grocery item. URL and QualityNotes
// are optional; an empty URL means the vendor has no shoppable link.
type VendorPrice struct {
	Vendor       string          `json:"vendor"`
	Price        decimal.Decimal `json:"price"`
	URL          string          `json:"url,omitempty"`
	QualityNotes string          `json:"quality_notes,omitempty"`
}

// GroceryItem is a single line of a generated grocery plan. ApproxCost is
// the lowest price found in PriceComparison; the renderer displays it
// verbatim and never recomputes it.
type GroceryItem struct {
	Name            string          `json:"name"`
	Quantity        string          `json:"quantity"`
	ApproxCost      decimal.Decimal `json:"approx_cost"`
	Category        string          `json:"category"`
	PriceComparison []VendorPrice   `json:"price_comparison"`
}

// GroceryList is the structured payload the planner expects from the AI for
// grocery queries. EstimatedTotal is the sum of the items' lowest prices, as
// computed by the AI.
type GroceryList struct {
	TotalBudget    decimal.Decimal `json:"total_budget"`
	EstimatedTotal decimal.Decimal `json:"estimated_total"`
	Items          []GroceryItem   `json:"items"`
}
