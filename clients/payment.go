package clients

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/kymani/dukahub-api/config"
)

// signatureTolerance bounds how old a webhook timestamp may be before the
// delivery is rejected as a possible replay.
const signatureTolerance = 5 * time.Minute

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// PaymentClient talks to the card-payment provider. It is constructed once in
// main and handed to the components that need it.
type PaymentClient struct {
	http          *resty.Client
	webhookSecret string
}

func NewPaymentClient(cfg config.Stripe) *PaymentClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(30 * time.Second).
		SetAuthToken(cfg.SecretKey)

	return &PaymentClient{
		http:          client,
		webhookSecret: cfg.WebhookSecret,
	}
}

// CreatePaymentIntent opens a hosted payment session for the given amount in
// minor units and returns the intent with its client secret.
func (c *PaymentClient) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string) (*PaymentIntent, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetFormData(map[string]string{
			"amount":                             strconv.FormatInt(amountCents, 10),
			"currency":                           currency,
			"automatic_payment_methods[enabled]": "true",
		}).
		Post("/v1/payment_intents")

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("payment intent request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var intent PaymentIntent
	if err := json.Unmarshal(resp.Body(), &intent); err != nil {
		return nil, fmt.Errorf("failed to parse payment intent response: %w", err)
	}

	if intent.ClientSecret == "" {
		return nil, fmt.Errorf("client secret not found in response")
	}

	return &intent, nil
}

// VerifyWebhookSignature checks the provider's signature header
// ("t=<unix>,v1=<hex hmac>") against the raw request body.
func (c *PaymentClient) VerifyWebhookSignature(payload []byte, header string, now time.Time) error {
	var timestamp string
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return fmt.Errorf("malformed signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed signature timestamp")
	}

	if diff := now.Sub(time.Unix(ts, 0)); diff > signatureTolerance || diff < -signatureTolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	expected := ComputeSignature(c.webhookSecret, timestamp, payload)
	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}

	return fmt.Errorf("no matching signature")
}

// ComputeSignature returns the HMAC-SHA256 of "<timestamp>.<payload>".
func ComputeSignature(secret, timestamp string, payload []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}
