package http_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blazevtc/blazeride/internal/pkg/models"
	httpHandler "github.com/blazevtc/blazeride/services/rides/handler/http"
)

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func webhookContext(body, signature string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set(httpHandler.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestWebhook_ValidSignatureProcessed(t *testing.T) {
	var got *models.ProviderCallback
	uc := &fakeUC{
		callback: func(_ context.Context, cb *models.ProviderCallback) (*models.Payment, error) {
			got = cb
			return &models.Payment{ID: uuid.New(), Status: models.PaymentStatusSuccess}, nil
		},
	}
	h := httpHandler.NewPaymentHandler(uc, models.PaymentConfig{WebhookSecret: "s3cret"})

	body := `{"transaction_id":"tx-1","status":"successful","reference":"OM-1"}`
	c, rec := webhookContext(body, sign("s3cret", body))

	require.NoError(t, h.Webhook(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "tx-1", got.ProviderTxID)
	assert.Equal(t, "successful", got.Status)
}

func TestWebhook_BadSignatureRejected(t *testing.T) {
	h := httpHandler.NewPaymentHandler(&fakeUC{}, models.PaymentConfig{WebhookSecret: "s3cret"})

	body := `{"transaction_id":"tx-1","status":"paid"}`
	c, rec := webhookContext(body, sign("wrong-secret", body))

	require.NoError(t, h.Webhook(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhook_MissingSignatureRejected(t *testing.T) {
	h := httpHandler.NewPaymentHandler(&fakeUC{}, models.PaymentConfig{WebhookSecret: "s3cret"})

	c, rec := webhookContext(`{"transaction_id":"tx-1","status":"paid"}`, "")
	require.NoError(t, h.Webhook(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhook_TxIDFallsBackToTxidField(t *testing.T) {
	uc := &fakeUC{
		callback: func(_ context.Context, cb *models.ProviderCallback) (*models.Payment, error) {
			assert.Equal(t, "tx-2", cb.ProviderTxID)
			return &models.Payment{ID: uuid.New()}, nil
		},
	}
	h := httpHandler.NewPaymentHandler(uc, models.PaymentConfig{})

	c, rec := webhookContext(`{"txid":"tx-2","status":"paid"}`, "")
	require.NoError(t, h.Webhook(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhook_InvalidJSONRejected(t *testing.T) {
	h := httpHandler.NewPaymentHandler(&fakeUC{}, models.PaymentConfig{})

	c, rec := webhookContext(`{not json`, "")
	require.NoError(t, h.Webhook(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
