package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Intent is the processor's representation of an in-progress charge.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"`
}

type ProcessorClient interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency, orderID string) (*Intent, error)
}

// StripeClient talks to the processor's payment_intents API. BaseURL is
// injectable so tests can point it at a local fake.
type StripeClient struct {
	HTTP      *http.Client
	BaseURL   string
	SecretKey string
}

func NewStripeClient(baseURL, secretKey string) *StripeClient {
	return &StripeClient{
		HTTP:      &http.Client{Timeout: 10 * time.Second},
		BaseURL:   strings.TrimRight(baseURL, "/"),
		SecretKey: secretKey,
	}
}

func (c *StripeClient) CreateIntent(ctx context.Context, amountMinor int64, currency, orderID string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	form.Set("metadata[orderId]", orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment_intents: %s", res.Status)
	}
	var in Intent
	if err := json.NewDecoder(res.Body).Decode(&in); err != nil {
		return nil, err
	}
	return &in, nil
}
