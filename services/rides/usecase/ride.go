package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/constants"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	"github.com/blazevtc/blazeride/internal/pkg/realtime"
	"github.com/blazevtc/blazeride/services/rides"
)

// rideUC implements the rides.RideUC interface
type rideUC struct {
	cfg      *models.Config
	rides    rides.RideRepo
	payments rides.PaymentRepo
	presence rides.PresenceRepo
	gw       rides.RideGW
	geocoder rides.Geocoder
	notifier rides.Notifier
	bc       rides.Broadcaster

	// locks serializes transition+publish per ride so events reach the
	// router in commit order.
	locks sync.Map

	now func() time.Time
}

// NewRideUC creates a new ride use case
func NewRideUC(
	cfg *models.Config,
	rideRepo rides.RideRepo,
	paymentRepo rides.PaymentRepo,
	presenceRepo rides.PresenceRepo,
	gw rides.RideGW,
	geocoder rides.Geocoder,
	notifier rides.Notifier,
	bc rides.Broadcaster,
) (rides.RideUC, error) {
	return &rideUC{
		cfg:      cfg,
		rides:    rideRepo,
		payments: paymentRepo,
		presence: presenceRepo,
		gw:       gw,
		geocoder: geocoder,
		notifier: notifier,
		bc:       bc,
		now:      time.Now,
	}, nil
}

// lockRide acquires the in-process per-ride mutex and returns the
// unlock function.
func (uc *rideUC) lockRide(rideID int64) func() {
	v, _ := uc.locks.LoadOrStore(rideID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// LiveRide returns the caller's current non-terminal ride.
func (uc *rideUC) LiveRide(ctx context.Context, userID int64, role string) (*models.Ride, error) {
	if role == constants.RoleDriver {
		return uc.rides.ActiveRideForDriver(ctx, userID)
	}
	return uc.rides.ActiveRideForCustomer(ctx, userID)
}

// Ride returns the ride by id, visible to its participants and to
// admins regardless of status.
func (uc *rideUC) Ride(ctx context.Context, rideID, userID int64, role string) (*models.Ride, error) {
	ride, err := uc.rides.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if role != constants.RoleAdmin {
		if err := validateParticipant(ride, userID); err != nil {
			return nil, err
		}
	}
	return ride, nil
}

// TouchPresence refreshes the driver's last-seen marker.
func (uc *rideUC) TouchPresence(ctx context.Context, driverID int64) error {
	return uc.presence.Touch(ctx, driverID)
}

func (uc *rideUC) customerTopics(ride *models.Ride) []string {
	return realtime.CustomerTopics(ride.CustomerID)
}

// publishToCustomer fans an event out to both customer topic aliases.
func (uc *rideUC) publishToCustomer(ride *models.Ride, event realtime.Event) {
	uc.bc.PublishAll(uc.customerTopics(ride), event)
}

func (uc *rideUC) publishToDriver(ride *models.Ride, event realtime.Event) {
	if ride.DriverID == nil {
		return
	}
	uc.bc.Publish(realtime.DriverTopic(*ride.DriverID), event)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func (uc *rideUC) formatPrice(amount int64) string {
	return fmt.Sprintf("%d %s", amount, uc.cfg.Rides.Currency)
}

func (uc *rideUC) rideSummary(ride *models.Ride) models.RideSummary {
	return models.RideSummary{
		ID:           ride.ID,
		Pickup:       ride.Pickup(),
		Dropoff:      ride.Dropoff(),
		Price:        fmt.Sprintf("%d", ride.Price),
		Status:       string(ride.Status),
		PickupLabel:  ride.PickupLabel,
		DropoffLabel: ride.DropoffLabel,
		PriceText:    uc.formatPrice(ride.Price),
	}
}

// validateParticipant returns the Forbidden error shared by every
// participant-gated operation.
func validateParticipant(ride *models.Ride, userID int64) error {
	if !ride.IsParticipant(userID) {
		return apperrors.Forbiddenf("user %d is not a participant of ride %d", userID, ride.ID)
	}
	return nil
}
