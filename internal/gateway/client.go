package gateway

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

const metadataReferenceKey = "reference"

type Config struct {
	SecretKey    string
	Timeout      time.Duration
	SyncPageSize int

	// BackendURL overrides the Stripe API host; tests point it at a stub.
	BackendURL string
}

// Client is the sole boundary to the payment processor. Every call is
// bounded by the configured timeout and every failure comes back as *Error.
type Client struct {
	api      *client.API
	timeout  time.Duration
	pageSize int
	logger   *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	var backends *stripe.Backends
	if cfg.BackendURL != "" {
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:           stripe.String(cfg.BackendURL),
			LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelError},
		})
		backends = &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, backends)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	pageSize := cfg.SyncPageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}

	return &Client{
		api:      api,
		timeout:  timeout,
		pageSize: pageSize,
		logger:   logger,
	}
}

// CreateAndConfirm creates a payment intent in minor units and requests
// immediate confirmation so the gateway settles or asks for 3DS in one call.
func (c *Client) CreateAndConfirm(ctx context.Context, amount float64, currency, paymentMethodID, reference string) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(ToMinorUnits(amount)),
		Currency:           stripe.String(strings.ToLower(currency)),
		PaymentMethod:      stripe.String(paymentMethodID),
		ConfirmationMethod: stripe.String(string(stripe.PaymentIntentConfirmationMethodManual)),
		Confirm:            stripe.Bool(true),
	}
	params.AddMetadata(metadataReferenceKey, reference)

	c.logger.Info("creating payment intent",
		"reference", reference,
		"amount_minor", ToMinorUnits(amount),
		"currency", currency)

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		gwErr := translateError(err, reference)
		c.logger.Warn("payment intent creation failed",
			"reference", reference,
			"code", gwErr.Code,
			"error", err)
		return nil, gwErr
	}

	return intentFromStripe(pi), nil
}

// Retrieve fetches the current state of a known intent, used after
// client-side 3-D Secure completion and during reconciliation.
func (c *Client) Retrieve(ctx context.Context, paymentIntentID string) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}

	pi, err := c.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		gwErr := translateError(err, "")
		c.logger.Warn("payment intent retrieval failed",
			"payment_intent_id", paymentIntentID,
			"code", gwErr.Code,
			"error", err)
		return nil, gwErr
	}

	return intentFromStripe(pi), nil
}

// ListRecent returns the latest intents known to the gateway, newest first,
// for bulk reconciliation.
func (c *Client) ListRecent(ctx context.Context) ([]*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.PaymentIntentListParams{
		ListParams: stripe.ListParams{
			Context: ctx,
			Limit:   stripe.Int64(int64(c.pageSize)),
		},
	}

	var intents []*Intent
	iter := c.api.PaymentIntents.List(params)
	for iter.Next() {
		intents = append(intents, intentFromStripe(iter.PaymentIntent()))
		if len(intents) >= c.pageSize {
			break
		}
	}
	if err := iter.Err(); err != nil {
		gwErr := translateError(err, "")
		c.logger.Warn("payment intent listing failed", "code", gwErr.Code, "error", err)
		return nil, gwErr
	}

	c.logger.Info("listed recent payment intents", "count", len(intents))
	return intents, nil
}

func intentFromStripe(pi *stripe.PaymentIntent) *Intent {
	intent := &Intent{
		ID:           pi.ID,
		Status:       string(pi.Status),
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}
	if pi.Metadata != nil {
		intent.Reference = pi.Metadata[metadataReferenceKey]
	}
	return intent
}
