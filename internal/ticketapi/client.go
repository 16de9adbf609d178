// Package ticketapi submits purchase records to the remote ticket service.
// Submission is best-effort by design: callers log failures and move on,
// the locally persisted order record is what the confirmation screen trusts.
package ticketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cinemor/booking-api/internal/domain"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) SubmitPurchase(ctx context.Context, bearerToken string, purchase domain.Purchase) error {
	if c.baseURL == "" {
		return fmt.Errorf("no ticket API configured")
	}

	body, err := json.Marshal(purchase)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/tickets/purchase", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("ticket API responded with status %d", resp.StatusCode)
	}

	return nil
}
