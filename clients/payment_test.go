package clients

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kymani/dukahub-api/config"
)

func testClient(secret string) *PaymentClient {
	return NewPaymentClient(config.Stripe{
		BaseURL:       "https://api.stripe.com",
		SecretKey:     "sk_test_123",
		WebhookSecret: secret,
	})
}

func signedHeader(secret string, at time.Time, payload []byte) string {
	timestamp := fmt.Sprintf("%d", at.Unix())
	sig := ComputeSignature(secret, timestamp, payload)
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(sig))
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := testClient("whsec_test")
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()

	header := signedHeader("whsec_test", now, payload)
	require.NoError(t, client.VerifyWebhookSignature(payload, header, now))
}

func TestVerifyWebhookSignatureWrongSecret(t *testing.T) {
	client := testClient("whsec_test")
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := signedHeader("whsec_other", now, payload)
	assert.Error(t, client.VerifyWebhookSignature(payload, header, now))
}

func TestVerifyWebhookSignatureTamperedPayload(t *testing.T) {
	client := testClient("whsec_test")
	now := time.Now()

	header := signedHeader("whsec_test", now, []byte(`{"amount":100}`))
	assert.Error(t, client.VerifyWebhookSignature([]byte(`{"amount":999}`), header, now))
}

func TestVerifyWebhookSignatureStaleTimestamp(t *testing.T) {
	client := testClient("whsec_test")
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := signedHeader("whsec_test", now.Add(-10*time.Minute), payload)
	assert.Error(t, client.VerifyWebhookSignature(payload, header, now))
}

func TestVerifyWebhookSignatureMalformedHeader(t *testing.T) {
	client := testClient("whsec_test")
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	assert.Error(t, client.VerifyWebhookSignature(payload, "", now))
	assert.Error(t, client.VerifyWebhookSignature(payload, "v1=deadbeef", now))
	assert.Error(t, client.VerifyWebhookSignature(payload, "t=notanumber,v1=deadbeef", now))
}
