// Package model defines the core domain types shared across the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the wire format for all domain dates.
const DateFormat = "2006-01-02"

// TransactionType distinguishes money in from money out.
type TransactionType string

// Transaction types.
const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Transaction is a single income or expense entry. Transactions are never
// mutated after creation; the collection is only appended to or replaced
// wholesale.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
}

// NewTransaction builds a transaction with a fresh id and today's date.
func NewTransaction(txType TransactionType, description string, amount decimal.Decimal, category string) Transaction {
	return Transaction{
		ID:          NewID(),
		Type:        txType,
		Description: description,
		Amount:      amount,
		Date:        time.Now().Format(DateFormat),
		Category:    category,
	}
}

// IsIncome reports whether the transaction adds to the balance.
func (t Transaction) IsIncome() bool {
	return t.Type == TypeIncome
}

// SumByType totals the amounts of all transactions of the given type.
func SumByType(transactions []Transaction, txType TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if t.Type == txType {
			total = total.Add(t.Amount)
		}
	}
	return total
}
