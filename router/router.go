package router

import (
	"account-service/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "account-service/docs"
)

func NewRouter(accountHandler *handler.AccountHandler, transactionHandler *handler.TransactionHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	if accountHandler != nil {
		mux.Handle("POST /api/accounts", handler.ErrorHandlingMiddleware(accountHandler.OpenAccount))
		mux.Handle("GET /api/accounts", handler.ErrorHandlingMiddleware(accountHandler.ListAccounts))
		mux.Handle("GET /api/accounts/{accountId}", handler.ErrorHandlingMiddleware(accountHandler.GetAccount))
		mux.Handle("DELETE /api/accounts/{accountId}", handler.ErrorHandlingMiddleware(accountHandler.DeleteAccount))

		mux.Handle("POST /api/accounts/{accountId}/signers/{personId}", handler.ErrorHandlingMiddleware(accountHandler.AddSigner))
		mux.Handle("DELETE /api/accounts/{accountId}/signers/{personId}", handler.ErrorHandlingMiddleware(accountHandler.RemoveSigner))
		mux.Handle("POST /api/accounts/{accountId}/holders/{personId}", handler.ErrorHandlingMiddleware(accountHandler.AddHolder))
		mux.Handle("DELETE /api/accounts/{accountId}/holders/{personId}", handler.ErrorHandlingMiddleware(accountHandler.RemoveHolder))
	}

	if transactionHandler != nil {
		mux.Handle("POST /api/accounts/{accountId}/deposit", handler.ErrorHandlingMiddleware(transactionHandler.Deposit))
		mux.Handle("POST /api/accounts/{accountId}/withdraw", handler.ErrorHandlingMiddleware(transactionHandler.Withdraw))
		mux.Handle("POST /api/transfers", handler.ErrorHandlingMiddleware(transactionHandler.CreateTransfer))
		mux.Handle("GET /api/accounts/{accountId}/transactions", handler.ErrorHandlingMiddleware(transactionHandler.ListTransactionsForAccount))
		mux.Handle("GET /api/reports/commissions", handler.ErrorHandlingMiddleware(transactionHandler.CommissionsReport))
	}

	return mux
}
