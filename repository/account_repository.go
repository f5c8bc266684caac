package repository

import (
	"account-service/logger"
	"account-service/model"
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrVersionConflict is returned by UpdateAccount when the stored row no
// longer carries the version the account was loaded with.
var ErrVersionConflict = errors.New("account version conflict")

// IAccountRepository defines the contract for account database operations.
type IAccountRepository interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccountByID(ctx context.Context, accountID string) (*model.Account, error)
	GetAccountsByCustomerID(ctx context.Context, customerID string) ([]*model.Account, error)
	GetAllAccounts(ctx context.Context) ([]*model.Account, error)
	UpdateAccount(ctx context.Context, account *model.Account) error
	DeleteAccount(ctx context.Context, accountID string) error
	CountActiveByCustomerAndType(ctx context.Context, customerID string, accountType model.AccountType) (int64, error)
}

type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

const accountColumns = `id, account_type, customer_id, balance, max_monthly_trans,
	maintenance_fee, transaction_fee, allowed_day_of_month, withdraw_max,
	signers, holders, summary_month, summary_year, summary_count,
	status, version, created_at, updated_at`

// CreateAccount inserts a new account row.
func (r *AccountRepository) CreateAccount(ctx context.Context, account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":   account.ID,
		"customer_id":  account.CustomerID,
		"account_type": account.AccountType,
	})
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (id, account_type, customer_id, balance, max_monthly_trans,
			maintenance_fee, transaction_fee, allowed_day_of_month, withdraw_max,
			signers, holders, summary_month, summary_year, summary_count, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(ctx, query,
		account.ID, account.AccountType, account.CustomerID, account.Balance,
		nullableInt(account.MaxMonthlyTrans), nullableDecimal(account.MaintenanceFee),
		nullableDecimal(account.TransactionFee), nullableInt(account.AllowedDayOfMonth),
		nullableDecimal(account.WithdrawMax),
		pq.Array(account.Signers), pq.Array(account.Holders),
		account.MonthlySummary.Month, account.MonthlySummary.Year, account.MonthlySummary.Count,
		account.Status, account.Version,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create account query")
		return err
	}
	return nil
}

// GetAccountByID loads a single account; sql.ErrNoRows when absent.
func (r *AccountRepository) GetAccountByID(ctx context.Context, accountID string) (*model.Account, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to get account by ID")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	account, err := scanAccount(r.DB.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get account query")
		}
		return nil, err
	}
	return account, nil
}

// GetAccountsByCustomerID retrieves all accounts owned by a customer.
func (r *AccountRepository) GetAccountsByCustomerID(ctx context.Context, customerID string) ([]*model.Account, error) {
	log := logger.Log.WithField("customer_id", customerID)
	log.Info("Executing query to get accounts by customer ID")

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE customer_id = $1`
	return r.queryAccounts(ctx, log, query, customerID)
}

// GetAllAccounts retrieves every account. For back-office use.
func (r *AccountRepository) GetAllAccounts(ctx context.Context) ([]*model.Account, error) {
	log := logrus.NewEntry(logger.Log)
	log.Info("Executing query to get all accounts")

	query := `SELECT ` + accountColumns + ` FROM accounts`
	return r.queryAccounts(ctx, log, query)
}

// UpdateAccount persists balance, summary, member sets and status in one
// write, guarded by an optimistic version check. The caller must have
// loaded the account in the same logical operation.
func (r *AccountRepository) UpdateAccount(ctx context.Context, account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": account.ID,
		"version":    account.Version,
	})
	log.Info("Executing query to update account")

	query := `UPDATE accounts
		SET balance = $1, signers = $2, holders = $3,
			summary_month = $4, summary_year = $5, summary_count = $6,
			status = $7, version = version + 1, updated_at = now()
		WHERE id = $8 AND version = $9`

	res, err := r.DB.ExecContext(ctx, query,
		account.Balance, pq.Array(account.Signers), pq.Array(account.Holders),
		account.MonthlySummary.Month, account.MonthlySummary.Year, account.MonthlySummary.Count,
		account.Status, account.ID, account.Version,
	)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account query")
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Warn("Account version conflict detected")
		return ErrVersionConflict
	}

	account.Version++
	return nil
}

// DeleteAccount removes an account row.
func (r *AccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to delete account")

	query := `DELETE FROM accounts WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete account query")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountActiveByCustomerAndType counts the customer's active accounts of the
// given type; the opening policy compares it against the per-type limit.
func (r *AccountRepository) CountActiveByCustomerAndType(ctx context.Context, customerID string, accountType model.AccountType) (int64, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"customer_id":  customerID,
		"account_type": accountType,
	})
	log.Info("Executing query to count active accounts")

	query := `SELECT COUNT(*) FROM accounts WHERE customer_id = $1 AND account_type = $2 AND status = $3`

	var count int64
	err := r.DB.QueryRowContext(ctx, query, customerID, accountType, model.StatusActive).Scan(&count)
	if err != nil {
		log.WithError(err).Error("Failed to execute count accounts query")
		return 0, err
	}
	return count, nil
}

func (r *AccountRepository) queryAccounts(ctx context.Context, log *logrus.Entry, query string, args ...interface{}) ([]*model.Account, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute accounts query")
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var (
		acc            model.Account
		maxMonthly     sql.NullInt64
		maintenanceFee decimal.NullDecimal
		transactionFee decimal.NullDecimal
		allowedDay     sql.NullInt64
		withdrawMax    decimal.NullDecimal
		signers        pq.StringArray
		holders        pq.StringArray
	)

	err := row.Scan(&acc.ID, &acc.AccountType, &acc.CustomerID, &acc.Balance,
		&maxMonthly, &maintenanceFee, &transactionFee, &allowedDay, &withdrawMax,
		&signers, &holders,
		&acc.MonthlySummary.Month, &acc.MonthlySummary.Year, &acc.MonthlySummary.Count,
		&acc.Status, &acc.Version, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return nil, err
	}

	acc.Signers = signers
	acc.Holders = holders
	if maxMonthly.Valid {
		v := int(maxMonthly.Int64)
		acc.MaxMonthlyTrans = &v
	}
	if allowedDay.Valid {
		v := int(allowedDay.Int64)
		acc.AllowedDayOfMonth = &v
	}
	if maintenanceFee.Valid {
		acc.MaintenanceFee = &maintenanceFee.Decimal
	}
	if transactionFee.Valid {
		acc.TransactionFee = &transactionFee.Decimal
	}
	if withdrawMax.Valid {
		acc.WithdrawMax = &withdrawMax.Decimal
	}
	return &acc, nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullableDecimal(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *v, Valid: true}
}
