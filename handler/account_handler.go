package handler

import (
	"account-service/common"
	"account-service/logger"
	"account-service/model"
	"account-service/service"
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

type AccountHandler struct {
	service *service.AccountService
}

func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// OpenAccount godoc
// @Summary      Open a new bank account
// @Description  Validates the opening policy for the requested account type and creates the account.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        account body model.OpenAccountRequest true "Account to open"
// @Success      201  {object}  model.Account
// @Failure      400  {object}  common.AppError "Policy rejection (restricted, missing configuration, credit card required)"
// @Failure      404  {object}  common.AppError "Customer not found"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/accounts [post]
func (h *AccountHandler) OpenAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.OpenAccountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	log := logger.Log.WithFields(logrus.Fields{
		"customer_id":  req.CustomerID,
		"account_type": req.AccountType,
	})
	log.Info("Open account request received")

	account, err := h.service.OpenAccount(r.Context(), &req)
	if err != nil {
		return businessError(err, "Could not open account")
	}

	writeJSON(w, http.StatusCreated, account)
	return nil
}

// GetAccount godoc
// @Summary      Get an account by id
// @Tags         accounts
// @Produce      json
// @Param        accountId path string true "Account id"
// @Success      200  {object}  model.Account
// @Failure      404  {object}  common.AppError "Account not found"
// @Router       /api/accounts/{accountId} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	account, err := h.service.GetAccount(r.Context(), r.PathValue("accountId"))
	if err != nil {
		return businessError(err, "Could not retrieve account")
	}

	writeJSON(w, http.StatusOK, account)
	return nil
}

// ListAccounts godoc
// @Summary      List accounts
// @Description  Lists every account, or a single customer's accounts when customer_id is given.
// @Tags         accounts
// @Produce      json
// @Param        customer_id query string false "Filter by owning customer"
// @Success      200  {array}   model.Account
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	customerID := r.URL.Query().Get("customer_id")

	var (
		accounts []*model.Account
		err      error
	)
	if customerID != "" {
		accounts, err = h.service.ListAccountsForCustomer(r.Context(), customerID)
	} else {
		accounts, err = h.service.ListAllAccounts(r.Context())
	}
	if err != nil {
		return businessError(err, "Could not retrieve accounts")
	}

	writeJSON(w, http.StatusOK, accounts)
	return nil
}

// DeleteAccount godoc
// @Summary      Delete an account
// @Tags         accounts
// @Param        accountId path string true "Account id"
// @Success      204
// @Failure      404  {object}  common.AppError "Account not found"
// @Router       /api/accounts/{accountId} [delete]
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.service.DeleteAccount(r.Context(), r.PathValue("accountId")); err != nil {
		return businessError(err, "Could not delete account")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// AddSigner godoc
// @Summary      Add a signer to an account
// @Description  Idempotent: adding a person that is already a signer changes nothing.
// @Tags         accounts
// @Produce      json
// @Param        accountId path string true "Account id"
// @Param        personId  path string true "Signer person id"
// @Success      200  {object}  model.Account
// @Failure      404  {object}  common.AppError "Account or person not found"
// @Router       /api/accounts/{accountId}/signers/{personId} [post]
func (h *AccountHandler) AddSigner(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.membership(w, r, h.service.AddSigner)
}

// RemoveSigner godoc
// @Summary      Remove a signer from an account
// @Tags         accounts
// @Produce      json
// @Param        accountId path string true "Account id"
// @Param        personId  path string true "Signer person id"
// @Success      200  {object}  model.Account
// @Failure      404  {object}  common.AppError "Account or person not found"
// @Router       /api/accounts/{accountId}/signers/{personId} [delete]
func (h *AccountHandler) RemoveSigner(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.membership(w, r, h.service.RemoveSigner)
}

// AddHolder godoc
// @Summary      Add a holder to an account
// @Description  Idempotent: adding a person that is already a holder changes nothing.
// @Tags         accounts
// @Produce      json
// @Param        accountId path string true "Account id"
// @Param        personId  path string true "Holder person id"
// @Success      200  {object}  model.Account
// @Failure      404  {object}  common.AppError "Account or person not found"
// @Router       /api/accounts/{accountId}/holders/{personId} [post]
func (h *AccountHandler) AddHolder(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.membership(w, r, h.service.AddHolder)
}

// RemoveHolder godoc
// @Summary      Remove a holder from an account
// @Tags         accounts
// @Produce      json
// @Param        accountId path string true "Account id"
// @Param        personId  path string true "Holder person id"
// @Success      200  {object}  model.Account
// @Failure      404  {object}  common.AppError "Account or person not found"
// @Router       /api/accounts/{accountId}/holders/{personId} [delete]
func (h *AccountHandler) RemoveHolder(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.membership(w, r, h.service.RemoveHolder)
}

func (h *AccountHandler) membership(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, accountID, personID string) (*model.Account, error)) *common.AppError {
	account, err := op(r.Context(), r.PathValue("accountId"), r.PathValue("personId"))
	if err != nil {
		return businessError(err, "Could not update account membership")
	}

	writeJSON(w, http.StatusOK, account)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
