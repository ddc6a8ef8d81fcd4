package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	nrpkg "github.com/blazevtc/blazeride/internal/pkg/newrelic"
	"github.com/blazevtc/blazeride/internal/utils"
	"github.com/blazevtc/blazeride/services/rides"
)

// SignatureHeader carries the provider's HMAC over the raw body.
const SignatureHeader = "X-Signature"

// PaymentHandler receives mobile money provider webhooks.
type PaymentHandler struct {
	rideUC rides.RideUC
	secret string
}

// NewPaymentHandler creates a new payment webhook handler
func NewPaymentHandler(rideUC rides.RideUC, cfg models.PaymentConfig) *PaymentHandler {
	return &PaymentHandler{
		rideUC: rideUC,
		secret: cfg.WebhookSecret,
	}
}

// webhookBody is the superset of fields our providers send.
type webhookBody struct {
	TransactionID string `json:"transaction_id"`
	TxID          string `json:"txid"`
	Status        string `json:"status"`
	Reference     string `json:"reference"`
}

// verifySignature checks the base64 HMAC-SHA256 of the raw body.
func (h *PaymentHandler) verifySignature(body []byte, signature string) bool {
	if h.secret == "" {
		// no secret configured means the deployment trusts the network
		return true
	}
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Webhook handles a provider payment status callback
func (h *PaymentHandler) Webhook(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Payments.Webhook")

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return utils.BadRequestResponse(c, "Failed to read request body")
	}

	if !h.verifySignature(body, c.Request().Header.Get(SignatureHeader)) {
		logger.Warn("rejected payment webhook with bad signature",
			logger.String("remote_ip", c.RealIP()))
		return utils.UnauthorizedResponse(c, "Invalid signature")
	}

	var wb webhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return utils.BadRequestResponse(c, "Invalid JSON body")
	}

	txID := wb.TransactionID
	if txID == "" {
		txID = wb.TxID
	}
	payment, err := h.rideUC.HandlePaymentCallback(c.Request().Context(), &models.ProviderCallback{
		ProviderTxID: txID,
		Status:       wb.Status,
		Reference:    wb.Reference,
	})
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Callback processed", payment)
}
