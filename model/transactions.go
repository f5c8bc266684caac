package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tags a journal entry. Fees are recorded alongside the
// money movements they were charged for.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionFee        TransactionType = "fee"
)

// Transaction is an append-only journal entry. Entries are never updated
// or deleted once written.
type Transaction struct {
	ID                   string          `json:"id"`
	AccountID            string          `json:"account_id"`
	CustomerID           string          `json:"customer_id"`
	ProductName          string          `json:"product_name"`
	Type                 TransactionType `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	BalanceAfterMovement decimal.Decimal `json:"balance_after_movement"`
	Description          string          `json:"description,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}
