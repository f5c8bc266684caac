// file: model/request.go

package model

// OpenAccountRequest defines the payload for opening a new bank account.
// It includes validation tags to ensure data integrity at the entry point.
type OpenAccountRequest struct {
	AccountType       string   `json:"account_type" validate:"required,oneof=saving checking fixed vip pyme"`
	CustomerID        string   `json:"customer_id" validate:"required"`
	Balance           *float64 `json:"balance,omitempty" validate:"omitempty,gte=0"`
	MaxMonthlyTrans   *int     `json:"max_monthly_trans,omitempty" validate:"omitempty,min=1"`
	MaintenanceFee    *float64 `json:"maintenance_fee,omitempty" validate:"omitempty,gte=0"`
	TransactionFee    *float64 `json:"transaction_fee,omitempty" validate:"omitempty,gte=0.01,lte=100"`
	AllowedDayOfMonth *int     `json:"allowed_day_of_month,omitempty" validate:"omitempty,min=1,max=31"`
	WithdrawMax       *float64 `json:"withdraw_max,omitempty" validate:"omitempty,gt=0"`
}

// MovementRequest defines the payload for a deposit or a withdrawal.
type MovementRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// TransferRequest defines the payload for a transfer between two accounts.
type TransferRequest struct {
	FromAccountID string  `json:"from_account_id" validate:"required"`
	ToAccountID   string  `json:"to_account_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
}
