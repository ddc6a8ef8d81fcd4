package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/blazevtc/blazeride/internal/pkg/constants"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	natspkg "github.com/blazevtc/blazeride/internal/pkg/nats"
	"github.com/blazevtc/blazeride/services/rides"
)

// RideGW publishes ride events on the NATS analytics side channel.
type RideGW struct {
	natsClient *natspkg.Client
}

// NewRideGW creates a new ride gateway
func NewRideGW(client *natspkg.Client) rides.RideGW {
	return &RideGW{
		natsClient: client,
	}
}

// rideMessage is the flat analytics shape for ride lifecycle subjects.
type rideMessage struct {
	RideID       int64      `json:"ride_id"`
	CustomerID   int64      `json:"customer_id"`
	DriverID     *int64     `json:"driver_id,omitempty"`
	Category     string     `json:"category"`
	Area         string     `json:"area"`
	Status       string     `json:"status"`
	Price        int64      `json:"price"`
	FinalPrice   *int64     `json:"final_price,omitempty"`
	PauseSeconds int64      `json:"pause_seconds"`
	RequestedAt  time.Time  `json:"requested_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
}

func (g *RideGW) publishRide(subject string, ride *models.Ride) error {
	msg := rideMessage{
		RideID:       ride.ID,
		CustomerID:   ride.CustomerID,
		DriverID:     ride.DriverID,
		Category:     string(ride.Category),
		Area:         ride.Area,
		Status:       string(ride.Status),
		Price:        ride.Price,
		FinalPrice:   ride.FinalPrice,
		PauseSeconds: ride.PauseSeconds,
		RequestedAt:  ride.RequestedAt,
		CompletedAt:  ride.CompletedAt,
		CancelledAt:  ride.CancelledAt,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return g.natsClient.Publish(subject, data)
}

// PublishRideCreated publishes a ride created event to NATS
func (g *RideGW) PublishRideCreated(_ context.Context, ride *models.Ride) error {
	return g.publishRide(constants.SubjectRideCreated, ride)
}

// PublishRideAccepted publishes a ride accepted event to NATS
func (g *RideGW) PublishRideAccepted(_ context.Context, ride *models.Ride) error {
	return g.publishRide(constants.SubjectRideAccepted, ride)
}

// PublishRideStarted publishes a ride started event to NATS
func (g *RideGW) PublishRideStarted(_ context.Context, ride *models.Ride) error {
	return g.publishRide(constants.SubjectRideStarted, ride)
}

// PublishRideCompleted publishes a ride completed event to NATS
func (g *RideGW) PublishRideCompleted(_ context.Context, ride *models.Ride) error {
	return g.publishRide(constants.SubjectRideCompleted, ride)
}

// PublishRideCancelled publishes a ride cancelled event to NATS
func (g *RideGW) PublishRideCancelled(_ context.Context, ride *models.Ride) error {
	return g.publishRide(constants.SubjectRideCancelled, ride)
}

// PublishPaymentStatus publishes a payment status change to NATS
func (g *RideGW) PublishPaymentStatus(_ context.Context, payment *models.Payment) error {
	data, err := json.Marshal(payment)
	if err != nil {
		return err
	}
	return g.natsClient.Publish(constants.SubjectPaymentStatus, data)
}
