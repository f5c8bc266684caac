package handler

import (
	"account-service/common"
	"account-service/model"
	"account-service/service"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionHandler holds dependencies for ledger-related handlers.
type TransactionHandler struct {
	service *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with its dependencies.
func NewTransactionHandler(s *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// Deposit godoc
// @Summary      Deposit money into an account
// @Description  Credits the amount, updates the monthly counter and charges the overage fee when the quota is exceeded.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        accountId path string true "Account id"
// @Param        movement body model.MovementRequest true "Amount to deposit"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Bad request (not depositable, day gate, invalid amount)"
// @Failure      404  {object}  common.AppError "Account not found"
// @Failure      409  {object}  common.AppError "Concurrent modification"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/accounts/{accountId}/deposit [post]
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.MovementRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	transaction, err := h.service.Deposit(r.Context(), r.PathValue("accountId"),
		decimal.NewFromFloat(req.Amount))
	if err != nil {
		return businessError(err, "Could not process deposit")
	}

	writeJSON(w, http.StatusCreated, transaction)
	return nil
}

// Withdraw godoc
// @Summary      Withdraw money from an account
// @Description  Debits the amount if funds allow, updates the monthly counter and charges the overage fee when the quota is exceeded.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        accountId path string true "Account id"
// @Param        movement body model.MovementRequest true "Amount to withdraw"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Bad request (insufficient funds, not withdrawable, day gate)"
// @Failure      404  {object}  common.AppError "Account not found"
// @Failure      409  {object}  common.AppError "Concurrent modification"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/accounts/{accountId}/withdraw [post]
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.MovementRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	transaction, err := h.service.Withdraw(r.Context(), r.PathValue("accountId"),
		decimal.NewFromFloat(req.Amount))
	if err != nil {
		return businessError(err, "Could not process withdrawal")
	}

	writeJSON(w, http.StatusCreated, transaction)
	return nil
}

// CreateTransfer godoc
// @Summary      Transfer money between accounts
// @Description  Runs a withdrawal on the source account followed by a deposit on the destination. The two legs commit independently.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        transfer body model.TransferRequest true "Details of the transfer"
// @Success      201  {object}  model.Transaction "The withdrawal leg's journal entry"
// @Failure      400  {object}  common.AppError "Bad request (insufficient funds, capability, day gate)"
// @Failure      404  {object}  common.AppError "Source or destination account not found"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/transfers [post]
func (h *TransactionHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.TransferRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	transaction, err := h.service.Transfer(r.Context(), req.FromAccountID, req.ToAccountID,
		decimal.NewFromFloat(req.Amount))
	if err != nil {
		return businessError(err, "Could not process transfer")
	}

	writeJSON(w, http.StatusCreated, transaction)
	return nil
}

// ListTransactionsForAccount godoc
// @Summary      List account transaction history
// @Tags         transactions
// @Produce      json
// @Param        accountId path string true "Account id"
// @Success      200  {array}   model.Transaction
// @Failure      404  {object}  common.AppError "Account not found"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/accounts/{accountId}/transactions [get]
func (h *TransactionHandler) ListTransactionsForAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	transactions, err := h.service.ListTransactionsForAccount(r.Context(), r.PathValue("accountId"))
	if err != nil {
		return businessError(err, "Could not retrieve transactions")
	}

	writeJSON(w, http.StatusOK, transactions)
	return nil
}

// CommissionsReport godoc
// @Summary      Commissions report by product
// @Description  Lists the fee transactions charged for a product between two dates (inclusive).
// @Tags         reports
// @Produce      json
// @Param        product query string true "Product name (account type)"
// @Param        start   query string true "Start date (YYYY-MM-DD)"
// @Param        end     query string true "End date (YYYY-MM-DD)"
// @Success      200  {object}  model.CommissionsReport
// @Failure      400  {object}  common.AppError "Invalid or reversed date range"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/reports/commissions [get]
func (h *TransactionHandler) CommissionsReport(w http.ResponseWriter, r *http.Request) *common.AppError {
	query := r.URL.Query()

	productName := query.Get("product")
	if productName == "" {
		return common.NewAppError(http.StatusBadRequest, "product query parameter is required", nil)
	}

	startDate, err := time.Parse("2006-01-02", query.Get("start"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "start must be a date in YYYY-MM-DD format", err)
	}
	endDate, err := time.Parse("2006-01-02", query.Get("end"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "end must be a date in YYYY-MM-DD format", err)
	}

	report, err := h.service.CommissionsReport(r.Context(), startDate, endDate, productName)
	if err != nil {
		return businessError(err, "Could not generate commissions report")
	}

	writeJSON(w, http.StatusOK, report)
	return nil
}
