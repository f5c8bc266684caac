// file: service/account_service.go

package service

import (
	"account-service/logger"
	"account-service/model"
	"account-service/repository"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// AccountService owns the opening policy and the signer/holder sets.
// Account lists per customer are cached with a cache-aside strategy.
type AccountService struct {
	repo        repository.IAccountRepository
	customers   ICustomerClient
	creditCards ICreditCardClient
	cache       ICacheClient
}

func NewAccountService(repo repository.IAccountRepository, customers ICustomerClient,
	creditCards ICreditCardClient, cache ICacheClient) *AccountService {
	return &AccountService{
		repo:        repo,
		customers:   customers,
		creditCards: creditCards,
		cache:       cache,
	}
}

// OpenAccount validates the opening policy for the requested account type
// and persists the new account. The policy is: the type must be openable,
// its required configuration must be present, the customer must be under
// the per-customer-type active-account limit, and gated (type, profile)
// pairs require at least one active credit card.
func (s *AccountService) OpenAccount(ctx context.Context, req *model.OpenAccountRequest) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"customer_id":  req.CustomerID,
		"account_type": req.AccountType,
	})
	log.Info("Initiating the open bank account process")

	draft := draftFromRequest(req)

	variant, err := ResolveVariant(draft)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	activeAccounts, err := s.repo.CountActiveByCustomerAndType(ctx, customer.ID, draft.AccountType)
	if err != nil {
		return nil, fmt.Errorf("could not count active accounts: %w", err)
	}

	if err := variant.ValidateOpening(activeAccounts, customer.Type); err != nil {
		log.WithError(err).Warn("Opening policy rejected the account")
		return nil, err
	}

	if RequiresCreditCard(draft.AccountType, customer.Profile) {
		log.Info("Checking if the customer has at least one active credit card")
		totalCards, err := s.creditCards.CountActiveByCustomer(ctx, customer.ID, CreditCardStatusActive)
		if err != nil {
			return nil, fmt.Errorf("could not verify credit cards: %w", err)
		}
		if totalCards == 0 {
			return nil, ErrCreditCardRequired
		}
	}

	if err := s.repo.CreateAccount(ctx, draft); err != nil {
		return nil, err
	}

	s.invalidateCustomerCache(ctx, customer.ID)

	log.WithField("account_id", draft.ID).Info("Account opened successfully")
	return draft, nil
}

// AddSigner registers a signer on the account. Adding a person that is
// already a signer is a no-op; the signer must exist in the customer
// directory.
func (s *AccountService) AddSigner(ctx context.Context, accountID, personID string) (*model.Account, error) {
	return s.updateMembership(ctx, accountID, personID, "add signer",
		func(account *model.Account) { account.AddSigner(personID) })
}

// RemoveSigner drops a signer from the account; absent ids are a no-op.
func (s *AccountService) RemoveSigner(ctx context.Context, accountID, personID string) (*model.Account, error) {
	return s.updateMembership(ctx, accountID, personID, "remove signer",
		func(account *model.Account) { account.RemoveSigner(personID) })
}

// AddHolder registers a holder on the account, with set semantics.
func (s *AccountService) AddHolder(ctx context.Context, accountID, personID string) (*model.Account, error) {
	return s.updateMembership(ctx, accountID, personID, "add holder",
		func(account *model.Account) { account.AddHolder(personID) })
}

// RemoveHolder drops a holder from the account; absent ids are a no-op.
func (s *AccountService) RemoveHolder(ctx context.Context, accountID, personID string) (*model.Account, error) {
	return s.updateMembership(ctx, accountID, personID, "remove holder",
		func(account *model.Account) { account.RemoveHolder(personID) })
}

func (s *AccountService) updateMembership(ctx context.Context, accountID, personID, operation string,
	mutate func(*model.Account)) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"person_id":  personID,
		"operation":  operation,
	})
	log.Info("Initiating account membership update")

	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// The person must be a known customer before being attached.
	if _, err := s.customers.FindByID(ctx, personID); err != nil {
		return nil, err
	}

	mutate(account)

	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		if err == repository.ErrVersionConflict {
			return nil, ErrConcurrentUpdate
		}
		return nil, err
	}

	s.invalidateCustomerCache(ctx, account.CustomerID)
	return account, nil
}

// GetAccount loads a single account by id.
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	return s.getAccount(ctx, accountID)
}

// ListAccountsForCustomer lists a customer's accounts using a cache-aside
// strategy: Redis first, database on miss, result cached for future reads.
func (s *AccountService) ListAccountsForCustomer(ctx context.Context, customerID string) ([]*model.Account, error) {
	cacheKey := customerCacheKey(customerID)

	cached, err := s.cache.Get(ctx, cacheKey).Result()
	if err == nil {
		var accounts []*model.Account
		if err := json.Unmarshal([]byte(cached), &accounts); err == nil {
			return accounts, nil
		}
	}

	accounts, err := s.repo.GetAccountsByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(accounts); err == nil {
		s.cache.Set(ctx, cacheKey, data, 10*time.Minute)
	}

	return accounts, nil
}

// ListAllAccounts retrieves every account. Caching is not applied here as
// back-office data may need to be fresh.
func (s *AccountService) ListAllAccounts(ctx context.Context) ([]*model.Account, error) {
	return s.repo.GetAllAccounts(ctx)
}

// DeleteAccount removes the account and invalidates its owner's cache.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID string) error {
	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteAccount(ctx, accountID); err != nil {
		if err == sql.ErrNoRows {
			return ErrAccountNotFound
		}
		return err
	}

	s.invalidateCustomerCache(ctx, account.CustomerID)
	return nil
}

func (s *AccountService) getAccount(ctx context.Context, accountID string) (*model.Account, error) {
	account, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) invalidateCustomerCache(ctx context.Context, customerID string) {
	s.cache.Del(ctx, customerCacheKey(customerID))
}

func customerCacheKey(customerID string) string {
	return fmt.Sprintf("accounts:%s", customerID)
}

func draftFromRequest(req *model.OpenAccountRequest) *model.Account {
	now := time.Now()
	account := &model.Account{
		ID:          uuid.New().String(),
		AccountType: model.AccountType(req.AccountType),
		CustomerID:  req.CustomerID,
		Balance:     decimal.Zero,
		Signers:     []string{},
		Holders:     []string{},
		MonthlySummary: model.MonthlySummary{
			Month: int(now.Month()),
			Year:  now.Year(),
			Count: 0,
		},
		Status:  model.StatusActive,
		Version: 1,
	}

	if req.Balance != nil {
		account.Balance = decimal.NewFromFloat(*req.Balance).Round(2)
	}
	account.MaxMonthlyTrans = req.MaxMonthlyTrans
	account.AllowedDayOfMonth = req.AllowedDayOfMonth
	if req.MaintenanceFee != nil {
		fee := decimal.NewFromFloat(*req.MaintenanceFee).Round(2)
		account.MaintenanceFee = &fee
	}
	if req.TransactionFee != nil {
		fee := decimal.NewFromFloat(*req.TransactionFee)
		account.TransactionFee = &fee
	}
	if req.WithdrawMax != nil {
		max := decimal.NewFromFloat(*req.WithdrawMax).Round(2)
		account.WithdrawMax = &max
	}
	return account
}
