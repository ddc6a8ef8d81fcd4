package constants

// Lifecycle and chat event names, as published on topics.
const (
	EventRideRequested    = "ride.requested"
	EventRideAccepted     = "ride.accepted"
	EventRideAssigned     = "ride.assigned"
	EventRideArrived      = "ride.arrived"
	EventRideStarted      = "ride.started"
	EventRidePauseStarted = "ride.pause.started"
	EventRidePauseStopped = "ride.pause.stopped"
	EventRideFinished     = "ride.finished"
	EventRideCancelled    = "ride.cancelled"
	EventRideChat         = "ride.chat"
	EventPaymentStatus    = "payment.status"
	EventDriverLocation   = "ride.driver.location"
	EventRiderLocation    = "ride.rider.location"
)

// Inbound WebSocket frame types.
const (
	FramePing         = "ping"
	FramePong         = "pong"
	FrameKick         = "kick"
	FrameError        = "error"
	FrameOK           = "ok"
	FrameRideAccept   = "ride.accept"
	FrameDriverArrive = "driver.arrived"
	FrameRideChat     = "ride.chat"
	FrameLocation     = "location"
)

// Kick reasons.
const (
	KickReasonDuplicate = "duplicate"
)

// WebSocket close code sent with a kick.
const CloseCodeKicked = 4001

// Chat sender roles.
const (
	RoleCustomer = "customer"
	RoleDriver   = "driver"
	RoleAdmin    = "admin"
)
