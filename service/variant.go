package service

import (
	"account-service/model"
	"time"

	"github.com/shopspring/decimal"
)

// AccountPolicy declares what an account type is allowed to do and which
// configuration its accounts must carry. The registry below is the closed
// set of products; resolving an unknown tag fails fast.
type AccountPolicy struct {
	Openable     bool
	Withdrawable bool
	Depositable  bool

	// OpenLimits maps a customer type to the maximum number of active
	// accounts of this product the customer may hold. A customer type
	// missing from the map is granted no limit at all.
	OpenLimits map[string]int64

	RequiresMaxMonthlyTrans bool
	RequiresMaintenanceFee  bool
	RequiresAllowedDay      bool
	DayGated                bool
}

// Day-gated accounts accept a single movement per calendar month.
const maxMovementsPerAllowedDay = 1

var accountPolicies = map[model.AccountType]AccountPolicy{
	model.TypeSaving: {
		Openable:     true,
		Withdrawable: true,
		Depositable:  true,
		OpenLimits:   map[string]int64{"personal": 1, "business": 0},

		RequiresMaxMonthlyTrans: true,
	},
	model.TypeChecking: {
		Openable:     true,
		Withdrawable: true,
		Depositable:  true,
		OpenLimits:   map[string]int64{"personal": 1},

		RequiresMaintenanceFee: true,
	},
	model.TypeFixed: {
		Openable:     true,
		Withdrawable: true,
		Depositable:  true,
		OpenLimits:   map[string]int64{"personal": 1, "business": 0},

		RequiresAllowedDay: true,
		DayGated:           true,
	},
	// VIP accounts are openable in principle but no customer type is
	// granted a limit, so every opening attempt is rejected.
	model.TypeVip: {
		Openable:   true,
		OpenLimits: map[string]int64{},
	},
	// Pyme accounts expose no capability at all.
	model.TypePyme: {
		OpenLimits: map[string]int64{},
	},
}

// creditCardGate lists the (accountType, customerProfile) pairs that demand
// at least one active credit card before the account may be opened.
var creditCardGate = map[string]bool{
	"saving:vip":    true,
	"checking:pyme": true,
}

// RequiresCreditCard reports whether opening an account of the given type
// for a customer with the given profile is gated on credit-card ownership.
func RequiresCreditCard(accountType model.AccountType, customerProfile string) bool {
	return creditCardGate[string(accountType)+":"+customerProfile]
}

// AccountVariant binds a loaded account to the policy of its declared type.
// It is transient: reconstructed from the persisted account per operation.
type AccountVariant struct {
	Account *model.Account
	Policy  AccountPolicy
}

// ResolveVariant looks the account's type tag up in the policy registry.
func ResolveVariant(account *model.Account) (*AccountVariant, error) {
	policy, ok := accountPolicies[account.AccountType]
	if !ok {
		return nil, ErrUnknownAccountType
	}
	return &AccountVariant{Account: account, Policy: policy}, nil
}

// ValidateOpening checks the type-specific configuration requirements and
// the per-customer-type active-account limit.
func (v *AccountVariant) ValidateOpening(activeAccounts int64, customerType string) error {
	if !v.Policy.Openable {
		return ErrAccountNotOpenable
	}
	if v.Policy.RequiresMaxMonthlyTrans && v.Account.MaxMonthlyTrans == nil {
		return ErrMaxMonthlyTransRequired
	}
	if v.Policy.RequiresMaintenanceFee && v.Account.MaintenanceFee == nil {
		return ErrMaintenanceFeeRequired
	}
	if v.Policy.RequiresAllowedDay && v.Account.AllowedDayOfMonth == nil {
		return ErrAllowedDayRequired
	}

	limit, ok := v.Policy.OpenLimits[customerType]
	if !ok || activeAccounts >= limit {
		return ErrOpeningRestricted
	}
	return nil
}

// ApplyDeposit adds the amount to the balance, rounded to 2 decimals.
func (v *AccountVariant) ApplyDeposit(amount decimal.Decimal) {
	v.Account.Balance = v.Account.Balance.Add(amount).Round(2)
}

// ApplyWithdrawal subtracts the amount from the balance, rounded to 2
// decimals, and rejects the movement if the result would go negative.
func (v *AccountVariant) ApplyWithdrawal(amount decimal.Decimal) error {
	newBalance := v.Account.Balance.Sub(amount).Round(2)
	if newBalance.IsNegative() {
		return ErrInsufficientFunds
	}
	v.Account.Balance = newBalance
	return nil
}

// CheckTransactionDay enforces the calendar gate for day-gated types: the
// movement must happen on the configured day of the month, and the account
// may not exceed its per-month movement quota.
func (v *AccountVariant) CheckTransactionDay(now time.Time) error {
	if !v.Policy.DayGated {
		return nil
	}
	if v.Account.AllowedDayOfMonth == nil {
		return ErrDayNotConfigured
	}
	if now.Day() != *v.Account.AllowedDayOfMonth {
		return ErrDayNotAllowed
	}

	summary := v.Account.MonthlySummary
	if summary.Month == int(now.Month()) && summary.Year == now.Year() &&
		summary.Count >= maxMovementsPerAllowedDay {
		return ErrDayQuotaExceeded
	}
	return nil
}
