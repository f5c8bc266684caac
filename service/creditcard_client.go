package service

import (
	"account-service/logger"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// CreditCardStatusActive is the status queried when the opening policy
// checks credit-card ownership.
const CreditCardStatusActive = "active"

// ICreditCardClient is the credit-card directory collaborator.
type ICreditCardClient interface {
	CountActiveByCustomer(ctx context.Context, customerID, status string) (int64, error)
}

// CreditCardClient talks to the credit-card directory over HTTP.
type CreditCardClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCreditCardClient(baseURL string) *CreditCardClient {
	return &CreditCardClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *CreditCardClient) CountActiveByCustomer(ctx context.Context, customerID, status string) (int64, error) {
	endpoint := fmt.Sprintf("%s/credit-cards/customer/%s/count?status=%s",
		c.baseURL, customerID, url.QueryEscape(status))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("could not build credit card request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.WithError(err).Error("Credit card service is unreachable")
		return 0, fmt.Errorf("credit card service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("credit card service returned status %d", resp.StatusCode)
	}

	var body struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("could not decode credit card response: %w", err)
	}
	return body.Count, nil
}
