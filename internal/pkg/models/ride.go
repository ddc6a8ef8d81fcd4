package models

import "time"

// RideStatus represents the status of a ride
type RideStatus string

const (
	RideStatusPending    RideStatus = "pending"
	RideStatusAccepted   RideStatus = "accepted"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// RideCategory is the vehicle class requested by the customer.
type RideCategory string

const (
	CategoryEco  RideCategory = "eco"
	CategoryClim RideCategory = "clim"
	CategoryVIP  RideCategory = "vip"
)

// Valid reports whether the category is one of the known classes.
func (c RideCategory) Valid() bool {
	switch c {
	case CategoryEco, CategoryClim, CategoryVIP:
		return true
	}
	return false
}

// Ride represents a ride record. Mutations go through the lifecycle
// engine only; the row is locked for the duration of each transition.
type Ride struct {
	ID         int64        `json:"id" db:"id"`
	CustomerID int64        `json:"customer_id" db:"customer_id"`
	DriverID   *int64       `json:"driver_id,omitempty" db:"driver_id"`
	Category   RideCategory `json:"category" db:"category"`
	Area       string       `json:"area" db:"area"`

	PickupLabel  string   `json:"pickup_label" db:"pickup_label"`
	PickupLat    *float64 `json:"pickup_lat,omitempty" db:"pickup_lat"`
	PickupLng    *float64 `json:"pickup_lng,omitempty" db:"pickup_lng"`
	DropoffLabel string   `json:"dropoff_label" db:"dropoff_label"`
	DropoffLat   *float64 `json:"dropoff_lat,omitempty" db:"dropoff_lat"`
	DropoffLng   *float64 `json:"dropoff_lng,omitempty" db:"dropoff_lng"`

	// Price is the base fare in XAF. FinalPrice is set on completion only.
	Price      int64  `json:"price" db:"price"`
	FinalPrice *int64 `json:"final_price,omitempty" db:"final_price"`

	// PauseSeconds accumulates closed pause intervals. The currently
	// open interval, if any, starts at PauseStartedAt.
	PauseSeconds   int64      `json:"pause_seconds" db:"pause_seconds"`
	PauseStartedAt *time.Time `json:"pause_started_at,omitempty" db:"pause_started_at"`

	Status RideStatus `json:"status" db:"status"`

	RequestedAt time.Time  `json:"requested_at" db:"requested_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty" db:"accepted_at"`
	ArrivedAt   *time.Time `json:"arrived_at,omitempty" db:"arrived_at"`
	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`

	// Last relayed driver position, for the live view.
	DriverLat *float64 `json:"driver_lat,omitempty" db:"driver_lat"`
	DriverLng *float64 `json:"driver_lng,omitempty" db:"driver_lng"`
}

// AssignedTo reports whether driverID is the ride's assigned driver.
func (r *Ride) AssignedTo(driverID int64) bool {
	return r.DriverID != nil && *r.DriverID == driverID
}

// IsParticipant reports whether userID is the customer or the assigned driver.
func (r *Ride) IsParticipant(userID int64) bool {
	return r.CustomerID == userID || r.AssignedTo(userID)
}

// Paused reports whether a pause interval is currently open.
func (r *Ride) Paused() bool {
	return r.PauseStartedAt != nil
}

// GeoPoint is a labelled optional coordinate pair.
type GeoPoint struct {
	Label string   `json:"label"`
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
}

// Pickup returns the itinerary pickup point.
func (r *Ride) Pickup() GeoPoint {
	return GeoPoint{Label: r.PickupLabel, Lat: r.PickupLat, Lng: r.PickupLng}
}

// Dropoff returns the itinerary dropoff point.
func (r *Ride) Dropoff() GeoPoint {
	return GeoPoint{Label: r.DropoffLabel, Lat: r.DropoffLat, Lng: r.DropoffLng}
}
