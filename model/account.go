package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the closed set of products this service manages.
type AccountType string

const (
	TypeSaving   AccountType = "saving"
	TypeChecking AccountType = "checking"
	TypeFixed    AccountType = "fixed"
	TypeVip      AccountType = "vip"
	TypePyme     AccountType = "pyme"
)

type AccountStatus string

const (
	StatusActive AccountStatus = "active"
	StatusClosed AccountStatus = "closed"
)

// MonthlySummary is the rolling per-account transaction counter. It always
// reflects the calendar month of the last movement; a stale summary is
// replaced, never incremented.
type MonthlySummary struct {
	Month int `json:"month"`
	Year  int `json:"year"`
	Count int `json:"count"`
}

type Account struct {
	ID                string           `json:"id"`
	AccountType       AccountType      `json:"account_type"`
	CustomerID        string           `json:"customer_id"`
	Balance           decimal.Decimal  `json:"balance"`
	MaxMonthlyTrans   *int             `json:"max_monthly_trans,omitempty"`
	MaintenanceFee    *decimal.Decimal `json:"maintenance_fee,omitempty"`
	TransactionFee    *decimal.Decimal `json:"transaction_fee,omitempty"`
	AllowedDayOfMonth *int             `json:"allowed_day_of_month,omitempty"`
	WithdrawMax       *decimal.Decimal `json:"withdraw_max,omitempty"`
	Signers           []string         `json:"signers"`
	Holders           []string         `json:"holders"`
	MonthlySummary    MonthlySummary   `json:"monthly_summary"`
	Status            AccountStatus    `json:"status"`
	Version           int64            `json:"-"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// HasSigner reports whether the given person id is already a signer.
func (a *Account) HasSigner(personID string) bool {
	return contains(a.Signers, personID)
}

// HasHolder reports whether the given person id is already a holder.
func (a *Account) HasHolder(personID string) bool {
	return contains(a.Holders, personID)
}

// AddSigner appends the person id if absent, keeping set semantics.
func (a *Account) AddSigner(personID string) {
	if !a.HasSigner(personID) {
		a.Signers = append(a.Signers, personID)
	}
}

// RemoveSigner drops the person id if present; absent ids are a no-op.
func (a *Account) RemoveSigner(personID string) {
	a.Signers = remove(a.Signers, personID)
}

func (a *Account) AddHolder(personID string) {
	if !a.HasHolder(personID) {
		a.Holders = append(a.Holders, personID)
	}
}

func (a *Account) RemoveHolder(personID string) {
	a.Holders = remove(a.Holders, personID)
}

func contains(set []string, element string) bool {
	for _, e := range set {
		if e == element {
			return true
		}
	}
	return false
}

func remove(set []string, element string) []string {
	out := set[:0]
	for _, e := range set {
		if e != element {
			out = append(out, e)
		}
	}
	return out
}
