package handler

import (
	"account-service/common"
	"account-service/service"
	"net/http"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

// businessError maps a service sentinel onto an HTTP status code. Anything
// unrecognized is treated as an internal error.
func businessError(err error, fallbackMessage string) *common.AppError {
	switch err {
	case service.ErrAccountNotFound, service.ErrCustomerNotFound:
		return common.NewAppError(http.StatusNotFound, err.Error(), err)
	case service.ErrConcurrentUpdate:
		return common.NewAppError(http.StatusConflict, err.Error(), err)
	case service.ErrInvalidAmount,
		service.ErrUnknownAccountType,
		service.ErrAccountNotOpenable,
		service.ErrMaxMonthlyTransRequired,
		service.ErrMaintenanceFeeRequired,
		service.ErrAllowedDayRequired,
		service.ErrOpeningRestricted,
		service.ErrCreditCardRequired,
		service.ErrNotWithdrawable,
		service.ErrNotDepositable,
		service.ErrInsufficientFunds,
		service.ErrDayNotConfigured,
		service.ErrDayNotAllowed,
		service.ErrDayQuotaExceeded,
		service.ErrInvalidDateRange:
		return common.NewAppError(http.StatusBadRequest, err.Error(), err)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallbackMessage, err)
	}
}
