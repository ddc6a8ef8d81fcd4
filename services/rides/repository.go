package rides

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/blazevtc/blazeride/internal/pkg/models"
)

// RideRepo defines the interface for ride data access operations
type RideRepo interface {
	CreateRide(ctx context.Context, ride *models.Ride) (*models.Ride, error)
	GetRide(ctx context.Context, id int64) (*models.Ride, error)
	ActiveRideForCustomer(ctx context.Context, customerID int64) (*models.Ride, error)
	ActiveRideForDriver(ctx context.Context, driverID int64) (*models.Ride, error)

	// UpdateInTx loads the ride with a row lock, applies fn to it and
	// writes the result back before committing. Transitions on the same
	// ride serialize on the lock.
	UpdateInTx(ctx context.Context, id int64, fn func(*models.Ride) error) (*models.Ride, error)

	UpdateDriverPosition(ctx context.Context, id int64, lat, lng float64) error
}

// PaymentRepo defines the interface for payment data access operations
type PaymentRepo interface {
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	PaymentByRide(ctx context.Context, rideID int64) (*models.Payment, error)
	// PaymentByProviderRef resolves a provider callback to a payment by
	// provider transaction ID or by our idempotency key.
	PaymentByProviderRef(ctx context.Context, ref string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, providerTxID string) error
}

// PresenceRepo defines the interface for driver presence tracking
type PresenceRepo interface {
	Touch(ctx context.Context, driverID int64) error
	// LastSeen returns a NotFound error when the driver has no recorded
	// presence at all.
	LastSeen(ctx context.Context, driverID int64) (time.Time, error)
	RecordLocation(ctx context.Context, area string, driverID int64, lat, lng float64) error
}
