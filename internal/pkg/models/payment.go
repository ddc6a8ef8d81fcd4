package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the normalized provider status.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// PaymentWallet identifies the funding source.
type PaymentWallet string

const (
	WalletMobileMoney PaymentWallet = "MOBILE_MONEY"
	WalletCash        PaymentWallet = "CASH"
)

// Payment represents a payment record attached to a ride.
type Payment struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	RideID         int64         `json:"ride_id" db:"ride_id"`
	Amount         int64         `json:"amount" db:"amount"`
	Currency       string        `json:"currency" db:"currency"`
	Wallet         PaymentWallet `json:"wallet" db:"wallet"`
	Provider       string        `json:"provider" db:"provider"`
	Msisdn         string        `json:"msisdn,omitempty" db:"msisdn"`
	IdempotencyKey string        `json:"idempotency_key" db:"idempotency_key"`
	ProviderTxID   string        `json:"provider_txid,omitempty" db:"provider_txid"`
	Status         PaymentStatus `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// ProviderCallback is the parsed body of a provider webhook.
type ProviderCallback struct {
	ProviderTxID string
	Status       string
	Reference    string
}
