package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// WSFrame peeks at the type discriminator of an inbound frame. The
// remaining fields are unmarshalled by the matching handler.
type WSFrame struct {
	Type string `json:"type"`
}

// WSError is sent back to a client when a frame is rejected.
type WSError struct {
	Type    string `json:"type"` // always "error"
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WSAck acknowledges a processed frame.
type WSAck struct {
	Type   string `json:"type"` // always "ok"
	Event  string `json:"event,omitempty"`
	RideID int64  `json:"rideId,omitempty"`
}

// WSKick instructs the receiving connection to close itself.
type WSKick struct {
	Type   string `json:"type"` // always "kick"
	Reason string `json:"reason"`
}

// WebSocketClaims are the JWT claims carried on a socket upgrade.
type WebSocketClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
