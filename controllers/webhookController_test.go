package controllers

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kymani/dukahub-api/clients"
	"github.com/kymani/dukahub-api/config"
	"github.com/kymani/dukahub-api/models"
	"github.com/kymani/dukahub-api/services"
	"github.com/kymani/dukahub-api/utils"
)

const testWebhookSecret = "whsec_test"

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) Send(to, subject string, data utils.EmailData, templatePath string) error {
	m.sent = append(m.sent, to)
	return nil
}

func newWebhookTestServer(t *testing.T) (*gin.Engine, *gorm.DB, *fakeMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Order{}, &models.OrderItem{}, &models.WebhookEvent{},
	))

	payments := clients.NewPaymentClient(config.Stripe{WebhookSecret: testWebhookSecret})
	mailer := &fakeMailer{}
	webhook := NewWebhookController(db, services.NewOrderService(db), payments, mailer)

	server := gin.New()
	server.POST("/webhooks/stripe", webhook.HandleStripeWebhook)
	return server, db, mailer
}

func seedPendingOrder(t *testing.T, db *gorm.DB, intentID string) models.Order {
	t.Helper()
	user := models.User{Fullname: "Buyer", Email: "buyer@example.com", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)

	order := models.Order{
		UserID:          int(user.ID),
		OrderNumber:     "ORD-20250105-001",
		Status:          models.OrderStatusPending,
		TotalPrice:      120.967,
		PaymentIntentID: intentID,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func postEvent(server *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("stripe-signature", signature)
	}
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder
}

func signBody(body []byte) string {
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	sig := clients.ComputeSignature(testWebhookSecret, timestamp, body)
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(sig))
}

func eventBody(id, eventType, intentID string) []byte {
	body, _ := json.Marshal(map[string]any{
		"id":   id,
		"type": eventType,
		"data": map[string]any{"object": map[string]any{"id": intentID}},
	})
	return body
}

func TestWebhookMissingSignatureHeader(t *testing.T) {
	server, _, _ := newWebhookTestServer(t)

	recorder := postEvent(server, eventBody("evt_1", "payment_intent.succeeded", "pi_1"), "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.JSONEq(t, `{"error":"Missing stripe-signature header"}`, recorder.Body.String())
}

func TestWebhookBadSignature(t *testing.T) {
	server, _, _ := newWebhookTestServer(t)

	recorder := postEvent(server, eventBody("evt_1", "payment_intent.succeeded", "pi_1"), "t=123,v1=deadbeef")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.JSONEq(t, `{"error":"Webhook signature verification failed"}`, recorder.Body.String())
}

func TestWebhookPaymentSucceeded(t *testing.T) {
	server, db, mailer := newWebhookTestServer(t)
	order := seedPendingOrder(t, db, "pi_123")

	body := eventBody("evt_1", "payment_intent.succeeded", "pi_123")
	recorder := postEvent(server, body, signBody(body))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"received":true}`, recorder.Body.String())

	var updated models.Order
	require.NoError(t, db.First(&updated, order.ID).Error)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)
	assert.True(t, updated.IsPaid)
	require.NotNil(t, updated.PaidAt)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "buyer@example.com", mailer.sent[0])
}

func TestWebhookDuplicateEventNotReapplied(t *testing.T) {
	server, db, mailer := newWebhookTestServer(t)
	seedPendingOrder(t, db, "pi_123")

	body := eventBody("evt_1", "payment_intent.succeeded", "pi_123")
	first := postEvent(server, body, signBody(body))
	assert.Equal(t, http.StatusOK, first.Code)

	second := postEvent(server, body, signBody(body))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, `{"received":true}`, second.Body.String())

	// The confirmation email went out exactly once.
	assert.Len(t, mailer.sent, 1)
}

func TestWebhookPaymentFailedOnlyLogs(t *testing.T) {
	server, db, mailer := newWebhookTestServer(t)
	order := seedPendingOrder(t, db, "pi_123")

	body := eventBody("evt_1", "payment_intent.payment_failed", "pi_123")
	recorder := postEvent(server, body, signBody(body))
	assert.Equal(t, http.StatusOK, recorder.Code)

	var updated models.Order
	require.NoError(t, db.First(&updated, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, updated.Status)
	assert.False(t, updated.IsPaid)
	assert.Empty(t, mailer.sent)
}

func TestWebhookUnrecognizedEventAcknowledged(t *testing.T) {
	server, _, _ := newWebhookTestServer(t)

	body := eventBody("evt_1", "customer.created", "cus_1")
	recorder := postEvent(server, body, signBody(body))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"received":true}`, recorder.Body.String())
}

func TestWebhookSucceededForCancelledOrderAcknowledged(t *testing.T) {
	server, db, mailer := newWebhookTestServer(t)
	order := seedPendingOrder(t, db, "pi_123")
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderStatusCancelled).Error)

	body := eventBody("evt_1", "payment_intent.succeeded", "pi_123")
	recorder := postEvent(server, body, signBody(body))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"received":true}`, recorder.Body.String())

	// The late success event never revives the cancelled order.
	var updated models.Order
	require.NoError(t, db.First(&updated, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
	assert.False(t, updated.IsPaid)
	assert.Empty(t, mailer.sent)
}

func TestWebhookUnknownIntentAcknowledged(t *testing.T) {
	server, _, mailer := newWebhookTestServer(t)

	body := eventBody("evt_1", "payment_intent.succeeded", "pi_unknown")
	recorder := postEvent(server, body, signBody(body))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, mailer.sent)
}
