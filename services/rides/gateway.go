package rides

import (
	"context"

	"github.com/blazevtc/blazeride/internal/pkg/models"
	"github.com/blazevtc/blazeride/internal/pkg/realtime"
)

// RideGW defines the interface for the analytics side channel. Failures
// here never fail the ride transition that triggered them.
type RideGW interface {
	PublishRideCreated(ctx context.Context, ride *models.Ride) error
	PublishRideAccepted(ctx context.Context, ride *models.Ride) error
	PublishRideStarted(ctx context.Context, ride *models.Ride) error
	PublishRideCompleted(ctx context.Context, ride *models.Ride) error
	PublishRideCancelled(ctx context.Context, ride *models.Ride) error
	PublishPaymentStatus(ctx context.Context, payment *models.Payment) error
}

// Geocoder resolves coordinates to a dispatch area name.
type Geocoder interface {
	ReverseArea(ctx context.Context, lat, lng float64) (string, error)
}

// Notifier delivers best-effort push notifications.
type Notifier interface {
	Push(ctx context.Context, userID int64, title, body string, data map[string]string) error
}

// Broadcaster is the live fanout surface. *realtime.Router satisfies it.
type Broadcaster interface {
	Publish(topic string, event realtime.Event)
	PublishAll(topics []string, event realtime.Event)
}
