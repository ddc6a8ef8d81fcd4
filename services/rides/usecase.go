package rides

import (
	"context"

	"github.com/blazevtc/blazeride/internal/pkg/models"
)

// RideUC defines the interface for ride business logic
type RideUC interface {
	RequestRide(ctx context.Context, req *models.RideRequest) (*models.Ride, error)
	AcceptRide(ctx context.Context, rideID, driverID int64) (*models.Ride, error)
	DriverArrived(ctx context.Context, rideID, driverID int64) (*models.Ride, error)
	StartRide(ctx context.Context, rideID, driverID int64) (*models.Ride, error)
	PauseRide(ctx context.Context, rideID, driverID int64) (*models.Ride, error)
	ResumeRide(ctx context.Context, rideID, driverID int64) (*models.Ride, error)
	FinishRide(ctx context.Context, rideID, callerID int64, role string) (*models.Ride, error)
	CancelRide(ctx context.Context, rideID, userID int64, role string) (*models.Ride, error)
	ForceCompleteRide(ctx context.Context, rideID, callerID int64, role string) (*models.Ride, error)
	LiveRide(ctx context.Context, userID int64, role string) (*models.Ride, error)
	Ride(ctx context.Context, rideID, userID int64, role string) (*models.Ride, error)

	RelayChat(ctx context.Context, rideID, senderID int64, role, text, messageID string) error
	RelayDriverLocation(ctx context.Context, driverID int64, lat, lng float64) error
	RelayRiderLocation(ctx context.Context, customerID int64, lat, lng float64) error
	TouchPresence(ctx context.Context, driverID int64) error

	HandlePaymentCallback(ctx context.Context, cb *models.ProviderCallback) (*models.Payment, error)
}
