// service/transaction_service_test.go
package service

import (
	"account-service/logger"
	"account-service/model"
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	// Initialize the logger for the test environment.
	logger.Init()
	os.Exit(m.Run())
}

// MockTransactionRepository is a mock for repository.ITransactionRepository.
type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, transaction *model.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransactionsByAccountID(ctx context.Context, accountID string) ([]*model.Transaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetFeeTransactionsByProduct(ctx context.Context, productName string, from, to time.Time) ([]*model.Transaction, error) {
	args := m.Called(ctx, productName, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func savingAccount(balance string) *model.Account {
	now := time.Now()
	maxTrans := 10
	fee := decimal.RequireFromString("10.00")
	return &model.Account{
		ID:              "a1",
		AccountType:     model.TypeSaving,
		CustomerID:      "c1",
		Balance:         decimal.RequireFromString(balance),
		MaxMonthlyTrans: &maxTrans,
		TransactionFee:  &fee,
		MonthlySummary: model.MonthlySummary{
			Month: int(now.Month()),
			Year:  now.Year(),
			Count: 0,
		},
		Status:  model.StatusActive,
		Version: 1,
	}
}

func TestTransactionService_DepositThenWithdrawRestoresBalance(t *testing.T) {
	mockAccounts := new(MockAccountRepository)
	mockJournal := new(MockTransactionRepository)
	svc := NewTransactionService(mockAccounts, mockJournal)

	account := savingAccount("500.00")
	var journaled []*model.Transaction

	mockAccounts.On("GetAccountByID", mock.Anything, "a1").Return(account, nil).Twice()
	mockAccounts.On("UpdateAccount", mock.Anything, account).Return(nil).Twice()
	mockJournal.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*model.Transaction")).
		Run(func(args mock.Arguments) {
			journaled = append(journaled, args.Get(1).(*model.Transaction))
		}).Return(nil).Twice()

	amount := decimal.RequireFromString("123.45")

	deposit, err := svc.Deposit(context.Background(), "a1", amount)
	assert.NoError(t, err)
	assert.Equal(t, model.TransactionDeposit, deposit.Type)
	assert.True(t, deposit.BalanceAfterMovement.Equal(decimal.RequireFromString("623.45")))

	withdrawal, err := svc.Withdraw(context.Background(), "a1", amount)
	assert.NoError(t, err)
	assert.Equal(t, model.TransactionWithdrawal, withdrawal.Type)

	assert.True(t, account.Balance.Equal(decimal.RequireFromString("500.00")),
		"balance should be restored exactly, got %s", account.Balance)
	assert.Len(t, journaled, 2)
	assert.Equal(t, 2, account.MonthlySummary.Count)
	mockAccounts.AssertExpectations(t)
	mockJournal.AssertExpectations(t)
}

func TestTransactionService_WithdrawInsufficientFunds(t *testing.T) {
	mockAccounts := new(MockAccountRepository)
	mockJournal := new(MockTransactionRepository)
	svc := NewTransactionService(mockAccounts, mockJournal)

	account := savingAccount("50.00")
	mockAccounts.On("GetAccountByID", mock.Anything, "a1").Return(account, nil).Once()

	_, err := svc.Withdraw(context.Background(), "a1", decimal.RequireFromString("100.00"))

	assert.Equal(t, ErrInsufficientFunds, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, 0, account.MonthlySummary.Count)
	mockAccounts.AssertNotCalled(t, "UpdateAccount")
	mockJournal.AssertNotCalled(t, "CreateTransaction")
}

func TestTransactionService_InvalidAmount(t *testing.T) {
	mockAccounts := new(MockAccountRepository)
	mockJournal := new(MockTransactionRepository)
	svc := NewTransactionService(mockAccounts, mockJournal)

	_, err := svc.Deposit(context.Background(), "a1", decimal.Zero)
	assert.Equal(t, ErrInvalidAmount, err)

	_, err = svc.Withdraw(context.Background(), "a1", decimal.RequireFromString("-5"))
	assert.Equal(t, ErrInvalidAmount, err)

	mockAccounts.AssertNotCalled(t, "GetAccountByID")
}

func TestTransactionService_MonthlySummaryRollsOver(t *testing.T) {
	mockAccounts := new(MockAccountRepository)
	mockJournal := new(MockTransactionRepository)
	svc := NewTransactionService(mockAccounts, mockJournal)

	account := savingAccount("500.00")
	lastMonth := time.Now().AddDate(0, -1, 0)
	account.MonthlySummary = model.MonthlySummary{
		Month: int(lastMonth.Month()),
		Year:  lastMonth.Year(),
		Count: 5,
	}

	mockAccounts.On("GetAccountByID", mock.Anything, "a1").Return(account, nil).Once()
	mockAccounts.On("UpdateAccount", mock.Anything, account).Return(nil).Once()
	mockJournal.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*model.Transaction")).
		Return(nil).Once()

	_, err := svc.Deposit(context.Background(), "a1", decimal.RequireFromString("10.00"))

	assert.NoError(t, err)
	now := time.Now()
	assert.Equal(t, int(now.Month()), account.MonthlySummary.Month)
	assert.Equal(t, now.Year(), account.MonthlySummary.Year)
	assert.Equal(t, 1, account.MonthlySummary.Count, "a stale summary is replaced, not incremented")
}

func TestTransactionService_OverageFee(t *testing.T) {
	mockAccounts := new(MockAccountRepository)
	mockJournal := new(MockTransactionRepository)
	svc := NewTransactionService(mockAccounts, mockJournal)

	account := savingAccount("500.00")
	maxTrans := 2
	account.MaxMonthlyTrans = &maxTrans
	account.MonthlySummary.Count = 2

	var journaled []*model.Transaction
	mockAccounts.On("GetAccountByID", mock.Anything, "a1").Return(account, nil).Once()
	mockAccounts.On("UpdateAccount", mock.Anything, account).Return(nil).Once()
	mockJournal.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*model.Transaction")).
		Run(func(args mock.Arguments) {
			journaled = append(journaled, args.Get(1).(*model.Transaction))
		}).Return(nil).Twice()

	_, err := svc.Withdraw(context.Background(), "a1", decimal.RequireFromString("100.00"))
	assert.NoError(t, err)

	// 100 withdrawn plus a 10% overage fee: 500 - 100 - 10 = 390.
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("390.00")),
		"got %s", account.Balance)

	assert.Len(t, journaled, 2)
	feeEntry, movement := journaled[0], journaled[1]
	assert.Equal(t, model.TransactionFee, feeEntry.Type)
	assert.True(t, feeEntry.Amount.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, feeEntry.BalanceAfterMovement.Equal(decimal.RequireFromString("390.00")))
	assert.Equal(t, model.TransactionWithdrawal, movement.Type)
	assert.True(t, movement.BalanceAfterMovement.Equal(decimal.RequireFromString("390.00")))
}

// The fee step does not re-check the balance the way the withdrawal does:
// a withdrawal that passes the funds check can still be driven below zero
// by the fee. This pins the current behavior down.
func TestTransactionService_FeeMayDriveBalanceNegative(t *testing.T) {
	mockAccounts := new(MockAccountRepository)
	mockJournal := new(MockTransactionRepository)
	svc := NewTransactionService(mockAccounts, mockJournal)

	account := savingAccount("100.00")
	maxTrans := 1
	account.MaxMonthlyTrans = &maxTrans
	account.MonthlySummary.Count = 1

	mockAccounts.On("GetAccountByID", mock.Anything, "a1").Return(account, nil).Once()
	mockAccounts.On("UpdateAccount", mock.Anything, account).Return(nil).Once()
	mockJournal.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*model.Transaction")).
		Return(nil).Twice()

	_, err := svc.Withdraw(context.Background(), "a1", decimal.RequireFromString("100.00"))

	assert.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("-10.00")),
		"got %s", account.Balance)
}

func TestTransactionService_FeeRoundingToZeroSkipsEntry(t *testing.T) {
	mockAccounts := new(MockAccountRepository)
	mockJournal := new(MockTransactionRepository)
	svc := NewTransactionService(mockAccounts, mockJournal)

	account := savingAccount("500.00")
	maxTrans := 1
	account.MaxMonthlyTrans = &maxTrans
	account.MonthlySummary.Count = 3
	fee := decimal.RequireFromString("0.01")
	account.TransactionFee = &fee

	mockAccounts.On("GetAccountByID", mock.Anything, "a1").Return(account, nil).Once()
	mockAccounts.On("UpdateAccount", mock.Anything, account).Return(nil).Once()
	mockJournal.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*model.Transaction")).
		Return(nil).Once()

	// 0.01% of 1.00 rounds to zero, so only the deposit itself is journaled.
	_, err := svc.Deposit(context.Background(), "a1", decimal.RequireFromString("1.00"))

	assert.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("501.00")))
	mockJournal.AssertNumberOfCalls(t, "CreateTransaction", 1)
}

func TestTransactionService_CapabilityChecks(t *testing.T) {
	mockAccounts := new(MockAccountRepository)
	mockJournal := new(MockTransactionRepository)
	svc := NewTransactionService(mockAccounts, mockJournal)

	vip := &model.Account{ID: "v1", AccountType: model.TypeVip, Balance: decimal.Zero}
	pyme := &model.Account{ID: "p1", AccountType: model.TypePyme, Balance: decimal.Zero}

	mockAccounts.On("GetAccountByID", mock.Anything, "v1").Return(vip, nil)
	mockAccounts.On("GetAccountByID", mock.Anything, "p1").Return(pyme, nil)

	_, err := svc.Deposit(context.Background(), "v1", decimal.RequireFromString("10.00"))
	assert.Equal(t, ErrNotDepositable, err)

	_, err = svc.Withdraw(context.Background(), "p1", decimal.RequireFromString("10.00"))
	assert.Equal(t, ErrNotWithdrawable, err)

	mockAccounts.AssertNotCalled(t, "UpdateAccount")
	mockJournal.AssertNotCalled(t, "CreateTransaction")
}

func TestTransactionService_DayGateBlocksPipeline(t *testing.T) {
	mockAccounts := new(MockAccountRepository)
	mockJournal := new(MockTransactionRepository)
	svc := NewTransactionService(mockAccounts, mockJournal)

	now := time.Now()
	wrongDay := now.Day()%28 + 1
	fixed := savingAccount("500.00")
	fixed.AccountType = model.TypeFixed
	fixed.AllowedDayOfMonth = &wrongDay

	mockAccounts.On("GetAccountByID", mock.Anything, "a1").Return(fixed, nil).Once()

	_, err := svc.Withdraw(context.Background(), "a1", decimal.RequireFromString("10.00"))

	assert.Equal(t, ErrDayNotAllowed, err)
	mockAccounts.AssertNotCalled(t, "UpdateAccount")
	mockJournal.AssertNotCalled(t, "CreateTransaction")
}

func TestTransactionService_Transfer(t *testing.T) {
	t.Run("two independently journaled legs", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockJournal := new(MockTransactionRepository)
		svc := NewTransactionService(mockAccounts, mockJournal)

		from := savingAccount("500.00")
		to := savingAccount("200.00")
		to.ID = "a2"

		var journaled []*model.Transaction
		mockAccounts.On("GetAccountByID", mock.Anything, "a1").Return(from, nil).Once()
		mockAccounts.On("GetAccountByID", mock.Anything, "a2").Return(to, nil).Once()
		mockAccounts.On("UpdateAccount", mock.Anything, from).Return(nil).Once()
		mockAccounts.On("UpdateAccount", mock.Anything, to).Return(nil).Once()
		mockJournal.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*model.Transaction")).
			Run(func(args mock.Arguments) {
				journaled = append(journaled, args.Get(1).(*model.Transaction))
			}).Return(nil).Twice()

		voucher, err := svc.Transfer(context.Background(), "a1", "a2", decimal.RequireFromString("50.00"))

		assert.NoError(t, err)
		assert.Equal(t, model.TransactionWithdrawal, voucher.Type)
		assert.Equal(t, "a1", voucher.AccountID)

		assert.True(t, from.Balance.Equal(decimal.RequireFromString("450.00")))
		assert.True(t, to.Balance.Equal(decimal.RequireFromString("250.00")))

		assert.Len(t, journaled, 2)
		assert.True(t, journaled[0].BalanceAfterMovement.Equal(decimal.RequireFromString("450.00")))
		assert.True(t, journaled[1].BalanceAfterMovement.Equal(decimal.RequireFromString("250.00")))

		// Each leg bumps its own monthly counter.
		assert.Equal(t, 1, from.MonthlySummary.Count)
		assert.Equal(t, 1, to.MonthlySummary.Count)
	})

	t.Run("failed deposit leg does not restore the withdrawal", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockJournal := new(MockTransactionRepository)
		svc := NewTransactionService(mockAccounts, mockJournal)

		from := savingAccount("500.00")
		mockAccounts.On("GetAccountByID", mock.Anything, "a1").Return(from, nil).Once()
		mockAccounts.On("GetAccountByID", mock.Anything, "missing").Return(nil, sql.ErrNoRows).Once()
		mockAccounts.On("UpdateAccount", mock.Anything, from).Return(nil).Once()
		mockJournal.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*model.Transaction")).
			Return(nil).Once()

		_, err := svc.Transfer(context.Background(), "a1", "missing", decimal.RequireFromString("50.00"))

		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrAccountNotFound)
		// The withdraw leg stays committed.
		assert.True(t, from.Balance.Equal(decimal.RequireFromString("450.00")))
	})
}

func TestTransactionService_CommissionsReport(t *testing.T) {
	t.Run("reversed range is rejected", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockJournal := new(MockTransactionRepository)
		svc := NewTransactionService(mockAccounts, mockJournal)

		start := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

		_, err := svc.CommissionsReport(context.Background(), start, end, "saving")

		assert.Equal(t, ErrInvalidDateRange, err)
		mockJournal.AssertNotCalled(t, "GetFeeTransactionsByProduct")
	})

	t.Run("queries the inclusive day window", func(t *testing.T) {
		mockAccounts := new(MockAccountRepository)
		mockJournal := new(MockTransactionRepository)
		svc := NewTransactionService(mockAccounts, mockJournal)

		start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)

		fees := []*model.Transaction{
			{ID: "t1", ProductName: "saving", Type: model.TransactionFee},
		}
		mockJournal.On("GetFeeTransactionsByProduct", mock.Anything, "saving",
			time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 1, 31, 23, 59, 59, 0, time.UTC),
		).Return(fees, nil).Once()

		report, err := svc.CommissionsReport(context.Background(), start, end, "saving")

		assert.NoError(t, err)
		assert.Equal(t, "saving", report.ProductName)
		assert.Equal(t, fees, report.Transactions)
		assert.False(t, report.GeneratedAt.IsZero())
		mockJournal.AssertExpectations(t)
	})
}
