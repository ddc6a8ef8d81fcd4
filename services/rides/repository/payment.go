package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/models"
)

const paymentColumns = `
	id, ride_id, amount, currency, wallet, provider, msisdn,
	idempotency_key, provider_txid, status, created_at, updated_at`

// PaymentRepo provides payment data access on PostgreSQL.
type PaymentRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

func NewPaymentRepository(cfg *models.Config, db *sqlx.DB) *PaymentRepo {
	return &PaymentRepo{
		cfg: cfg,
		db:  db,
	}
}

// CreatePayment inserts a new payment row. A duplicate idempotency key
// returns the stored payment instead of a second row.
func (p *PaymentRepo) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if existing, err := p.PaymentByProviderRef(ctx, payment.IdempotencyKey); err == nil {
		return existing, nil
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	query := `
		INSERT INTO payments (
			id, ride_id, amount, currency, wallet, provider, msisdn,
			idempotency_key, provider_txid, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := p.db.ExecContext(
		ctx,
		query,
		payment.ID,
		payment.RideID,
		payment.Amount,
		payment.Currency,
		payment.Wallet,
		payment.Provider,
		payment.Msisdn,
		payment.IdempotencyKey,
		payment.ProviderTxID,
		payment.Status,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	cp := *payment
	return &cp, nil
}

// PaymentByRide returns the payment attached to a ride, newest first.
func (p *PaymentRepo) PaymentByRide(ctx context.Context, rideID int64) (*models.Payment, error) {
	query := `SELECT` + paymentColumns + `
		FROM payments WHERE ride_id = $1
		ORDER BY created_at DESC LIMIT 1`

	var payment models.Payment
	if err := p.db.GetContext(ctx, &payment, query, rideID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("no payment for ride %d", rideID)
		}
		return nil, fmt.Errorf("failed to get payment for ride %d: %w", rideID, err)
	}
	return &payment, nil
}

// PaymentByProviderRef resolves a callback reference against the
// provider transaction ID or our idempotency key.
func (p *PaymentRepo) PaymentByProviderRef(ctx context.Context, ref string) (*models.Payment, error) {
	query := `SELECT` + paymentColumns + `
		FROM payments
		WHERE provider_txid = $1 OR idempotency_key = $1
		LIMIT 1`

	var payment models.Payment
	if err := p.db.GetContext(ctx, &payment, query, ref); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("no payment for reference %s", ref)
		}
		return nil, fmt.Errorf("failed to get payment by reference: %w", err)
	}
	return &payment, nil
}

// UpdatePaymentStatus sets the payment status and, when present, the
// provider transaction ID.
func (p *PaymentRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, providerTxID string) error {
	query := `
		UPDATE payments
		SET status = $2,
		    provider_txid = COALESCE(NULLIF($3, ''), provider_txid),
		    updated_at = $4
		WHERE id = $1
	`
	res, err := p.db.ExecContext(ctx, query, id, status, providerTxID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFoundf("payment %s not found", id)
	}
	return nil
}
