// Package payment is a narrow HTTP client for the external checkout
// provider. Only session creation lives here; completion arrives through
// the provider's webhook.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
)

type Gateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  logger.Logger
}

func NewGateway(baseURL, apiKey string, timeout time.Duration, log logger.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  log,
	}
}

type checkoutRequest struct {
	Amount   float64           `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

type checkoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

func (g *Gateway) CreateCheckout(ctx context.Context, amount float64, currency string, metadata map[string]string) (*domain.CheckoutHandle, error) {
	body, err := json.Marshal(checkoutRequest{Amount: amount, Currency: currency, Metadata: metadata})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		g.logger.Errorf("Gateway.CreateCheckout: unexpected status %d", resp.StatusCode)
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var out checkoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("payment gateway response decode failed: %w", err)
	}
	return &domain.CheckoutHandle{URL: out.URL, SessionID: out.SessionID}, nil
}
