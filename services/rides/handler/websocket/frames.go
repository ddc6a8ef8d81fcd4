package websocket

import "github.com/blazevtc/blazeride/internal/pkg/apperrors"

// errorMessage picks the text for an outbound error frame. Forbidden
// errors collapse to a generic message so the frame does not reveal
// ride ownership; the detailed error stays server side.
func errorMessage(err error) string {
	if apperrors.IsForbidden(err) {
		return "Forbidden"
	}
	return err.Error()
}

// Inbound frame payloads. The type discriminator has already been read
// from models.WSFrame before these are unmarshalled.

type acceptFrame struct {
	RideID int64 `json:"rideId"`
}

type arrivedFrame struct {
	RideID int64 `json:"rideId"`
}

type chatFrame struct {
	RideID    int64  `json:"rideId"`
	Text      string `json:"text"`
	MessageID string `json:"messageId,omitempty"`
}

type locationFrame struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type pongFrame struct {
	Type string `json:"type"` // always "pong"
}
