package service

import "errors"

// Business-rule failures surfaced by the account and transaction services.
// Handlers map these onto HTTP status codes; none of them are retried or
// swallowed inside the services.
var (
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrUnknownAccountType      = errors.New("unknown account type")
	ErrAccountNotOpenable      = errors.New("accounts of this type cannot be opened")
	ErrMaxMonthlyTransRequired = errors.New("max monthly transactions must be set for this account type")
	ErrMaintenanceFeeRequired  = errors.New("maintenance fee must be set for this account type")
	ErrAllowedDayRequired      = errors.New("allowed day for operations must be set for this account type")
	ErrOpeningRestricted       = errors.New("customer is restricted from opening a new account of this type")
	ErrCreditCardRequired      = errors.New("customer must have at least one active credit card to open this account")
	ErrNotWithdrawable         = errors.New("this account does not allow withdrawals")
	ErrNotDepositable          = errors.New("this account does not allow deposits")
	ErrInsufficientFunds       = errors.New("account does not have enough funds to cover the operation")
	ErrDayNotConfigured        = errors.New("the transaction day has not been set for this account")
	ErrDayNotAllowed           = errors.New("this account allows transactions only on its configured day of the month")
	ErrDayQuotaExceeded        = errors.New("transaction limit for the allowed day has been exceeded")
	ErrInvalidDateRange        = errors.New("start date must be before end date")
	ErrAccountNotFound         = errors.New("account not found")
	ErrCustomerNotFound        = errors.New("customer not found")
	ErrConcurrentUpdate        = errors.New("account was modified concurrently, please retry")
)
