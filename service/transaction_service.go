package service

import (
	"account-service/logger"
	"account-service/model"
	"account-service/repository"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// TransactionService runs the ledger pipeline: load account, resolve its
// variant, apply the movement, bump the monthly counter, assess the overage
// fee, persist the account once and journal the movement. Every operation
// re-reads the account; the optimistic version column on the account guards
// against concurrent read-modify-write.
type TransactionService struct {
	accountRepo     repository.IAccountRepository
	transactionRepo repository.ITransactionRepository
}

func NewTransactionService(accountRepo repository.IAccountRepository,
	transactionRepo repository.ITransactionRepository) *TransactionService {
	return &TransactionService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// Deposit credits the amount to the account and journals the movement.
func (s *TransactionService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*model.Transaction, error) {
	logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"amount":     amount,
	}).Info("Initiating the deposit process")

	return s.applyMovement(ctx, accountID, amount, model.TransactionDeposit)
}

// Withdraw debits the amount from the account and journals the movement.
// The resulting balance must not go negative.
func (s *TransactionService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*model.Transaction, error) {
	logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"amount":     amount,
	}).Info("Initiating the withdraw process")

	return s.applyMovement(ctx, accountID, amount, model.TransactionWithdrawal)
}

// Transfer moves the amount between two accounts as a withdrawal followed
// by a deposit. The two legs are committed independently: if the deposit
// leg fails after the withdrawal committed, the withdrawn funds are NOT
// restored. This is a documented limitation, not an atomicity guarantee.
func (s *TransactionService) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) (*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"from_account_id": fromAccountID,
		"to_account_id":   toAccountID,
		"amount":          amount,
	})
	log.Info("Initiating the transfer process")

	withdrawal, err := s.Withdraw(ctx, fromAccountID, amount)
	if err != nil {
		return nil, err
	}

	if _, err := s.Deposit(ctx, toAccountID, amount); err != nil {
		log.WithError(err).Error("Deposit leg failed after the withdrawal committed; funds were not restored")
		return nil, fmt.Errorf("transfer deposit leg failed: %w", err)
	}

	log.Info("Transfer completed successfully")
	return withdrawal, nil
}

// ListTransactionsForAccount retrieves an account's journal, newest first.
func (s *TransactionService) ListTransactionsForAccount(ctx context.Context, accountID string) ([]*model.Transaction, error) {
	if _, err := s.loadAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetTransactionsByAccountID(ctx, accountID)
}

// CommissionsReport lists every fee charged for a product between the two
// dates, inclusive. The window spans startDate 00:00:00 to endDate 23:59:59.
func (s *TransactionService) CommissionsReport(ctx context.Context, startDate, endDate time.Time, productName string) (*model.CommissionsReport, error) {
	if startDate.After(endDate) {
		return nil, ErrInvalidDateRange
	}

	from := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	to := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 0, endDate.Location())

	fees, err := s.transactionRepo.GetFeeTransactionsByProduct(ctx, productName, from, to)
	if err != nil {
		return nil, err
	}

	return &model.CommissionsReport{
		Description:  "Report of all the commissions charged by product over a period of time.",
		ProductName:  productName,
		StartDate:    startDate,
		EndDate:      endDate,
		GeneratedAt:  time.Now(),
		Status:       "active",
		Transactions: fees,
	}, nil
}

// applyMovement is the shared deposit/withdraw pipeline. Order matters:
// every check runs before the first write, the fee entry is journaled
// before the single account persist, and the movement entry is journaled
// after it carrying the final balance.
func (s *TransactionService) applyMovement(ctx context.Context, accountID string, amount decimal.Decimal, movementType model.TransactionType) (*model.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	amount = amount.Round(2)

	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	variant, err := ResolveVariant(account)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := variant.CheckTransactionDay(now); err != nil {
		return nil, err
	}

	switch movementType {
	case model.TransactionDeposit:
		if !variant.Policy.Depositable {
			return nil, ErrNotDepositable
		}
		variant.ApplyDeposit(amount)
	case model.TransactionWithdrawal:
		if !variant.Policy.Withdrawable {
			return nil, ErrNotWithdrawable
		}
		if err := variant.ApplyWithdrawal(amount); err != nil {
			return nil, err
		}
	}

	bumpMonthlyCounter(account, now)

	if err := s.assessOverageFee(ctx, account, amount); err != nil {
		return nil, err
	}

	if err := s.accountRepo.UpdateAccount(ctx, account); err != nil {
		if err == repository.ErrVersionConflict {
			return nil, ErrConcurrentUpdate
		}
		return nil, err
	}

	movement := newJournalEntry(account, movementType, amount)
	if err := s.transactionRepo.CreateTransaction(ctx, movement); err != nil {
		return nil, fmt.Errorf("could not journal the %s: %w", movementType, err)
	}

	return movement, nil
}

// bumpMonthlyCounter increments the rolling counter when the stored summary
// belongs to the current calendar month, and replaces it otherwise. Fees
// never pass through here.
func bumpMonthlyCounter(account *model.Account, now time.Time) {
	summary := &account.MonthlySummary
	if summary.Month == int(now.Month()) && summary.Year == now.Year() {
		summary.Count++
		return
	}
	*summary = model.MonthlySummary{
		Month: int(now.Month()),
		Year:  now.Year(),
		Count: 1,
	}
}

// assessOverageFee charges the transaction fee once the monthly counter has
// reached the account's quota. The fee is a percentage of the movement
// amount, rounded to 2 decimals half-up; a fee that rounds to zero is not
// recorded. The balance is not re-checked for non-negativity here, so a fee
// can leave the account overdrawn.
func (s *TransactionService) assessOverageFee(ctx context.Context, account *model.Account, amount decimal.Decimal) error {
	if account.MaxMonthlyTrans == nil || account.TransactionFee == nil {
		return nil
	}
	if account.MonthlySummary.Count < *account.MaxMonthlyTrans {
		return nil
	}

	fee := amount.Mul(account.TransactionFee.Div(decimal.NewFromInt(100))).Round(2)
	if fee.IsZero() {
		return nil
	}

	account.Balance = account.Balance.Sub(fee).Round(2)

	logger.Log.WithFields(logrus.Fields{
		"account_id": account.ID,
		"fee":        fee,
	}).Info("Monthly transaction quota exceeded, charging overage fee")

	feeEntry := newJournalEntry(account, model.TransactionFee, fee)
	if err := s.transactionRepo.CreateTransaction(ctx, feeEntry); err != nil {
		return fmt.Errorf("could not journal the fee: %w", err)
	}
	return nil
}

func (s *TransactionService) loadAccount(ctx context.Context, accountID string) (*model.Account, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func newJournalEntry(account *model.Account, entryType model.TransactionType, amount decimal.Decimal) *model.Transaction {
	return &model.Transaction{
		ID:                   uuid.New().String(),
		AccountID:            account.ID,
		CustomerID:           account.CustomerID,
		ProductName:          string(account.AccountType),
		Type:                 entryType,
		Amount:               amount,
		BalanceAfterMovement: account.Balance,
	}
}
