package models

import (
	"time"

	"github.com/blazevtc/blazeride/internal/pkg/constants"
)

// Lifecycle and chat events form a closed set of named types. Each
// implements EventName so the topic router can publish both the
// generic envelope and the direct flattened shape from one value.

// DriverInfo identifies a driver in customer-facing payloads.
type DriverInfo struct {
	ID int64 `json:"id"`
}

// RideSummary is the customer-facing view of an accepted ride.
type RideSummary struct {
	ID           int64    `json:"id"`
	Pickup       GeoPoint `json:"pickup"`
	Dropoff      GeoPoint `json:"dropoff"`
	Price        string   `json:"price"`
	Status       string   `json:"status"`
	PickupLabel  string   `json:"pickup_label,omitempty"`
	DropoffLabel string   `json:"dropoff_label,omitempty"`
	PriceText    string   `json:"price_text,omitempty"`
}

// RideRequestedEvent is offered to the pool topic for (category, area).
type RideRequestedEvent struct {
	RequestID   int64     `json:"requestId"`
	Category    string    `json:"category"`
	Area        string    `json:"area"`
	Pickup      GeoPoint  `json:"pickup"`
	Dropoff     GeoPoint  `json:"dropoff"`
	Price       string    `json:"price"`
	PriceText   string    `json:"price_text"`
	RequestedAt time.Time `json:"requested_at"`
}

func (RideRequestedEvent) EventName() string { return constants.EventRideRequested }

// RideAcceptedEvent notifies the customer that a driver won the offer.
type RideAcceptedEvent struct {
	RequestID int64       `json:"requestId"`
	Driver    DriverInfo  `json:"driver"`
	Ride      RideSummary `json:"ride"`
}

func (RideAcceptedEvent) EventName() string { return constants.EventRideAccepted }

// RideAssignedEvent notifies the winning driver on its personal topic.
type RideAssignedEvent struct {
	RequestID int64 `json:"requestId"`
}

func (RideAssignedEvent) EventName() string { return constants.EventRideAssigned }

// RideArrivedEvent notifies the customer the driver is at the pickup point.
type RideArrivedEvent struct {
	RequestID int64      `json:"requestId"`
	Driver    DriverInfo `json:"driver"`
	Lat       *float64   `json:"lat,omitempty"`
	Lng       *float64   `json:"lng,omitempty"`
	Source    string     `json:"source"`
	Grace     int        `json:"grace"`
	At        time.Time  `json:"at"`
}

func (RideArrivedEvent) EventName() string { return constants.EventRideArrived }

// RideStartedEvent notifies the customer the trip is underway.
type RideStartedEvent struct {
	RequestID int64      `json:"requestId"`
	Driver    DriverInfo `json:"driver"`
	At        time.Time  `json:"at"`
}

func (RideStartedEvent) EventName() string { return constants.EventRideStarted }

// RidePauseStartedEvent reports an opened pause interval.
type RidePauseStartedEvent struct {
	RequestID    int64     `json:"requestId"`
	PauseSeconds int64     `json:"pause_seconds"`
	At           time.Time `json:"at"`
}

func (RidePauseStartedEvent) EventName() string { return constants.EventRidePauseStarted }

// RidePauseStoppedEvent reports a closed pause interval and the
// running totals.
type RidePauseStoppedEvent struct {
	RequestID    int64 `json:"requestId"`
	PauseSeconds int64 `json:"pause_seconds"`
	PauseFee     int64 `json:"pause_fee"`
}

func (RidePauseStoppedEvent) EventName() string { return constants.EventRidePauseStopped }

// RideFinishedEvent carries the settled fare breakdown.
type RideFinishedEvent struct {
	RequestID    int64 `json:"requestId"`
	Price        int64 `json:"price"`
	PauseSeconds int64 `json:"pause_seconds"`
	PauseFee     int64 `json:"pause_fee"`
	FinalPrice   int64 `json:"final_price"`
}

func (RideFinishedEvent) EventName() string { return constants.EventRideFinished }

// RideCancelledEvent notifies both parties of a cancellation.
type RideCancelledEvent struct {
	RequestID int64 `json:"requestId"`
}

func (RideCancelledEvent) EventName() string { return constants.EventRideCancelled }

// RideChatEvent relays a free-text message between ride participants.
type RideChatEvent struct {
	MessageID string    `json:"messageId"`
	RequestID int64     `json:"requestId"`
	From      string    `json:"from"` // customer or driver
	SenderID  int64     `json:"sender_id"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sent_at"`
}

func (RideChatEvent) EventName() string { return constants.EventRideChat }

// PaymentStatusEvent notifies the customer of a provider status change.
type PaymentStatusEvent struct {
	RequestID int64  `json:"requestId"`
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
	Amount    string `json:"amount"`
	Reference string `json:"ref,omitempty"`
	TxID      string `json:"txid,omitempty"`
}

func (PaymentStatusEvent) EventName() string { return constants.EventPaymentStatus }

// DriverLocationEvent relays the driver's position to the customer.
type DriverLocationEvent struct {
	RequestID int64   `json:"requestId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Leg       string  `json:"leg"` // to_pickup or to_dropoff
}

func (DriverLocationEvent) EventName() string { return constants.EventDriverLocation }

// RiderLocationEvent relays the customer's position to the driver.
type RiderLocationEvent struct {
	RequestID int64   `json:"requestId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

func (RiderLocationEvent) EventName() string { return constants.EventRiderLocation }
