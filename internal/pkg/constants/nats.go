package constants

// NATS subjects for the analytics side-channel. Published best-effort
// after each committed transition; never part of the transition itself.
const (
	SubjectRideCreated   = "rides.created"
	SubjectRideAccepted  = "rides.accepted"
	SubjectRideStarted   = "rides.started"
	SubjectRideCompleted = "rides.completed"
	SubjectRideCancelled = "rides.cancelled"
	SubjectPaymentStatus = "payments.status"
)
