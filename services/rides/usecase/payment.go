package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/models"
)

// mapProviderStatus normalizes the free-form status strings the mobile
// money providers send.
func mapProviderStatus(s string) models.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success", "successful", "succeeded", "paid", "completed":
		return models.PaymentStatusSuccess
	case "failed", "declined", "rejected", "canceled", "cancelled", "timeout":
		return models.PaymentStatusFailed
	}
	return models.PaymentStatusPending
}

// HandlePaymentCallback applies a provider webhook to the matching
// payment and notifies the customer. Terminal statuses never change.
func (uc *rideUC) HandlePaymentCallback(ctx context.Context, cb *models.ProviderCallback) (*models.Payment, error) {
	ref := cb.ProviderTxID
	if ref == "" {
		ref = cb.Reference
	}
	if ref == "" {
		return nil, apperrors.Invalidf("callback carries no transaction reference")
	}

	payment, err := uc.payments.PaymentByProviderRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	status := mapProviderStatus(cb.Status)
	if payment.Status == status {
		return payment, nil
	}
	if payment.Status != models.PaymentStatusPending {
		return nil, apperrors.Conflictf("payment %s is already %s", payment.ID, payment.Status)
	}

	if err := uc.payments.UpdatePaymentStatus(ctx, payment.ID, status, cb.ProviderTxID); err != nil {
		return nil, err
	}
	payment.Status = status
	if cb.ProviderTxID != "" {
		payment.ProviderTxID = cb.ProviderTxID
	}

	ride, err := uc.rides.GetRide(ctx, payment.RideID)
	if err != nil {
		logger.Error("payment references unknown ride",
			logger.String("payment_id", payment.ID.String()),
			logger.Int64("ride_id", payment.RideID), logger.Err(err))
		return payment, nil
	}

	uc.publishToCustomer(ride, models.PaymentStatusEvent{
		RequestID: ride.ID,
		PaymentID: payment.ID.String(),
		Status:    string(payment.Status),
		Amount:    fmt.Sprintf("%d", payment.Amount),
		Reference: cb.Reference,
		TxID:      payment.ProviderTxID,
	})

	if err := uc.gw.PublishPaymentStatus(ctx, payment); err != nil {
		logger.Warn("failed to publish payment status event",
			logger.String("payment_id", payment.ID.String()), logger.Err(err))
	}
	if status == models.PaymentStatusSuccess {
		if err := uc.notifier.Push(ctx, ride.CustomerID, "Payment received",
			uc.formatPrice(payment.Amount), map[string]string{"ride_id": itoa(ride.ID)}); err != nil {
			logger.Debug("payment push failed",
				logger.Int64("user_id", ride.CustomerID), logger.Err(err))
		}
	}

	logger.Info("payment status updated",
		logger.String("payment_id", payment.ID.String()),
		logger.String("status", string(payment.Status)))
	return payment, nil
}
