package repository

import (
	"account-service/logger"
	"account-service/model"
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func accountRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "account_type", "customer_id", "balance", "max_monthly_trans",
		"maintenance_fee", "transaction_fee", "allowed_day_of_month", "withdraw_max",
		"signers", "holders", "summary_month", "summary_year", "summary_count",
		"status", "version", "created_at", "updated_at",
	})
}

func TestAccountRepository_GetAccountByID(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)
	now := time.Now()

	rows := accountRows().AddRow(
		"a1", "saving", "c1", "500.00", 5,
		nil, "10.00", nil, nil,
		"{s1}", "{h1,h2}", 6, 2023, 2,
		"active", 3, now, now,
	)
	dbMock.ExpectQuery("SELECT (.+) FROM accounts WHERE id").
		WithArgs("a1").
		WillReturnRows(rows)

	account, err := repo.GetAccountByID(context.Background(), "a1")

	assert.NoError(t, err)
	assert.Equal(t, "a1", account.ID)
	assert.Equal(t, model.TypeSaving, account.AccountType)
	assert.Equal(t, "500", account.Balance.String())
	assert.NotNil(t, account.MaxMonthlyTrans)
	assert.Equal(t, 5, *account.MaxMonthlyTrans)
	assert.Nil(t, account.MaintenanceFee)
	assert.NotNil(t, account.TransactionFee)
	assert.Equal(t, []string{"s1"}, account.Signers)
	assert.Equal(t, []string{"h1", "h2"}, account.Holders)
	assert.Equal(t, model.MonthlySummary{Month: 6, Year: 2023, Count: 2}, account.MonthlySummary)
	assert.Equal(t, int64(3), account.Version)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAccountRepository_GetAccountByID_NotFound(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)

	dbMock.ExpectQuery("SELECT (.+) FROM accounts WHERE id").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetAccountByID(context.Background(), "ghost")

	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAccountRepository_UpdateAccount(t *testing.T) {
	newAccount := func() *model.Account {
		return &model.Account{
			ID:          "a1",
			AccountType: model.TypeSaving,
			Signers:     []string{},
			Holders:     []string{},
			Status:      model.StatusActive,
			Version:     3,
		}
	}

	t.Run("success bumps the version", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewAccountRepository(db)
		account := newAccount()

		dbMock.ExpectExec("UPDATE accounts").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.UpdateAccount(context.Background(), account)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), account.Version)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("stale version is a conflict", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewAccountRepository(db)
		account := newAccount()

		dbMock.ExpectExec("UPDATE accounts").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.UpdateAccount(context.Background(), account)

		assert.Equal(t, ErrVersionConflict, err)
		assert.Equal(t, int64(3), account.Version)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestAccountRepository_CountActiveByCustomerAndType(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)

	dbMock.ExpectQuery("SELECT COUNT").
		WithArgs("c1", "saving", "active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountActiveByCustomerAndType(context.Background(), "c1", model.TypeSaving)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAccountRepository_DeleteAccount_NotFound(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)

	dbMock.ExpectExec("DELETE FROM accounts").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DeleteAccount(context.Background(), "ghost")

	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
