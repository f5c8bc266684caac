package repository

import (
	"account-service/logger"
	"account-service/model"
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for the transaction journal.
// The journal is append-only: entries are written once and never touched.
type ITransactionRepository interface {
	CreateTransaction(ctx context.Context, transaction *model.Transaction) error
	GetTransactionsByAccountID(ctx context.Context, accountID string) ([]*model.Transaction, error)
	GetFeeTransactionsByProduct(ctx context.Context, productName string, from, to time.Time) ([]*model.Transaction, error)
}

// TransactionRepository implements ITransactionRepository.
type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) CreateTransaction(ctx context.Context, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": transaction.AccountID,
		"type":       transaction.Type,
		"amount":     transaction.Amount,
	})
	log.Info("Executing query to create a new transaction")

	query := `INSERT INTO account_transactions
			(id, account_id, customer_id, product_name, type, amount, balance_after_movement, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.DB.QueryRowContext(ctx, query,
		transaction.ID, transaction.AccountID, transaction.CustomerID,
		transaction.ProductName, transaction.Type, transaction.Amount,
		transaction.BalanceAfterMovement, transaction.Description,
	).Scan(&transaction.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transaction query")
		return err
	}
	return nil
}

// GetTransactionsByAccountID retrieves an account's journal, newest first.
func (r *TransactionRepository) GetTransactionsByAccountID(ctx context.Context, accountID string) ([]*model.Transaction, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get transactions by account ID")

	query := `
		SELECT id, account_id, customer_id, product_name, type, amount,
			balance_after_movement, COALESCE(description, ''), created_at
		FROM account_transactions
		WHERE account_id = $1
		ORDER BY created_at DESC`

	return r.queryTransactions(ctx, log, query, accountID)
}

// GetFeeTransactionsByProduct retrieves fee entries for a product whose
// creation time falls within [from, to].
func (r *TransactionRepository) GetFeeTransactionsByProduct(ctx context.Context, productName string, from, to time.Time) ([]*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"product_name": productName,
		"from":         from,
		"to":           to,
	})
	log.Info("Executing query to get fee transactions by product")

	query := `
		SELECT id, account_id, customer_id, product_name, type, amount,
			balance_after_movement, COALESCE(description, ''), created_at
		FROM account_transactions
		WHERE product_name = $1 AND type = $2 AND created_at BETWEEN $3 AND $4
		ORDER BY created_at`

	return r.queryTransactions(ctx, log, query, productName, model.TransactionFee, from, to)
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, log *logrus.Entry, query string, args ...interface{}) ([]*model.Transaction, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute transactions query")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.CustomerID, &t.ProductName, &t.Type,
			&t.Amount, &t.BalanceAfterMovement, &t.Description, &t.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}
