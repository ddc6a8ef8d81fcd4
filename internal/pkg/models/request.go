package models

// RideRequest is the validated payload of a ride creation call.
type RideRequest struct {
	CustomerID   int64        `json:"-"`
	Category     RideCategory `json:"category"`
	Area         string       `json:"area,omitempty"`
	PickupLabel  string       `json:"pickup_label"`
	PickupLat    *float64     `json:"pickup_lat,omitempty"`
	PickupLng    *float64     `json:"pickup_lng,omitempty"`
	DropoffLabel string       `json:"dropoff_label"`
	DropoffLat   *float64     `json:"dropoff_lat,omitempty"`
	DropoffLng   *float64     `json:"dropoff_lng,omitempty"`
	// Price is the quoted base fare in XAF.
	Price int64 `json:"price"`
}
