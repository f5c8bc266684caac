package service

import (
	"account-service/logger"
	"account-service/model"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ICustomerClient is the customer-directory collaborator. Accounts never
// store customer data beyond the id; everything else is looked up here.
type ICustomerClient interface {
	FindByID(ctx context.Context, customerID string) (*model.Customer, error)
}

// CustomerClient talks to the customer directory over HTTP.
type CustomerClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCustomerClient(baseURL string) *CustomerClient {
	return &CustomerClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *CustomerClient) FindByID(ctx context.Context, customerID string) (*model.Customer, error) {
	url := fmt.Sprintf("%s/customers/%s", c.baseURL, customerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not build customer request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.WithError(err).Error("Customer service is unreachable")
		return nil, fmt.Errorf("customer service unavailable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrCustomerNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("customer service returned status %d", resp.StatusCode)
	}

	var customer model.Customer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		return nil, fmt.Errorf("could not decode customer response: %w", err)
	}
	return &customer, nil
}
