package usecase

import (
	"context"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/constants"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	"github.com/blazevtc/blazeride/internal/pkg/realtime"
)

// AcceptRide assigns the ride to the first driver whose accept wins the
// row lock. Losers get a Conflict naming the status they lost to.
func (uc *rideUC) AcceptRide(ctx context.Context, rideID, driverID int64) (*models.Ride, error) {
	unlock := uc.lockRide(rideID)
	defer unlock()

	ride, err := uc.rides.UpdateInTx(ctx, rideID, func(r *models.Ride) error {
		if r.Status != models.RideStatusPending {
			return apperrors.Conflictf("ride already %s", r.Status)
		}
		now := uc.now()
		r.DriverID = &driverID
		r.Status = models.RideStatusAccepted
		r.AcceptedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishToCustomer(ride, models.RideAcceptedEvent{
		RequestID: ride.ID,
		Driver:    models.DriverInfo{ID: driverID},
		Ride:      uc.rideSummary(ride),
	})
	uc.publishToDriver(ride, models.RideAssignedEvent{RequestID: ride.ID})

	if err := uc.gw.PublishRideAccepted(ctx, ride); err != nil {
		logger.Warn("failed to publish ride accepted event",
			logger.Int64("ride_id", ride.ID), logger.Err(err))
	}
	if err := uc.notifier.Push(ctx, ride.CustomerID, "Driver found",
		"Your driver is on the way", map[string]string{"ride_id": itoa(ride.ID)}); err != nil {
		logger.Warn("push notification failed",
			logger.Int64("user_id", ride.CustomerID), logger.Err(err))
	}

	logger.Info("ride accepted",
		logger.Int64("ride_id", ride.ID),
		logger.Int64("driver_id", driverID))
	return ride, nil
}

// DriverArrived flags the ride as arrived-at-pickup. Calling it again
// is a no-op.
func (uc *rideUC) DriverArrived(ctx context.Context, rideID, driverID int64) (*models.Ride, error) {
	unlock := uc.lockRide(rideID)
	defer unlock()

	already := false
	ride, err := uc.rides.UpdateInTx(ctx, rideID, func(r *models.Ride) error {
		if !r.AssignedTo(driverID) {
			return apperrors.Forbiddenf("ride %d is not assigned to driver %d", rideID, driverID)
		}
		if r.Status != models.RideStatusAccepted && r.Status != models.RideStatusInProgress {
			return apperrors.Conflictf("cannot arrive on a %s ride", r.Status)
		}
		if r.ArrivedAt != nil {
			already = true
			return nil
		}
		now := uc.now()
		r.ArrivedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if already {
		return ride, nil
	}

	uc.publishToCustomer(ride, models.RideArrivedEvent{
		RequestID: ride.ID,
		Driver:    models.DriverInfo{ID: driverID},
		Lat:       ride.DriverLat,
		Lng:       ride.DriverLng,
		Source:    "driver",
		Grace:     uc.cfg.Rides.ArrivalGraceSeconds,
		At:        *ride.ArrivedAt,
	})

	if err := uc.notifier.Push(ctx, ride.CustomerID, "Driver arrived",
		"Your driver is waiting at the pickup point", map[string]string{"ride_id": itoa(ride.ID)}); err != nil {
		logger.Warn("push notification failed",
			logger.Int64("user_id", ride.CustomerID), logger.Err(err))
	}
	return ride, nil
}

// StartRide moves an accepted ride into progress. A resend on a ride
// that is already in progress returns the current state without
// republishing the transition.
func (uc *rideUC) StartRide(ctx context.Context, rideID, driverID int64) (*models.Ride, error) {
	unlock := uc.lockRide(rideID)
	defer unlock()

	already := false
	ride, err := uc.rides.UpdateInTx(ctx, rideID, func(r *models.Ride) error {
		if !r.AssignedTo(driverID) {
			return apperrors.Forbiddenf("ride %d is not assigned to driver %d", rideID, driverID)
		}
		switch r.Status {
		case models.RideStatusInProgress:
			already = true
			return nil
		case models.RideStatusAccepted:
		default:
			return apperrors.Conflictf("cannot start a %s ride", r.Status)
		}
		now := uc.now()
		r.Status = models.RideStatusInProgress
		r.StartedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if already {
		return ride, nil
	}

	uc.publishToCustomer(ride, models.RideStartedEvent{
		RequestID: ride.ID,
		Driver:    models.DriverInfo{ID: driverID},
		At:        *ride.StartedAt,
	})
	if err := uc.gw.PublishRideStarted(ctx, ride); err != nil {
		logger.Warn("failed to publish ride started event",
			logger.Int64("ride_id", ride.ID), logger.Err(err))
	}

	logger.Info("ride started", logger.Int64("ride_id", ride.ID))
	return ride, nil
}

// CancelRide cancels a ride on behalf of either participant. Cancelling
// an already cancelled ride succeeds without republishing.
func (uc *rideUC) CancelRide(ctx context.Context, rideID, userID int64, role string) (*models.Ride, error) {
	unlock := uc.lockRide(rideID)
	defer unlock()

	already := false
	wasPending := false
	ride, err := uc.rides.UpdateInTx(ctx, rideID, func(r *models.Ride) error {
		if role != constants.RoleAdmin {
			if err := validateParticipant(r, userID); err != nil {
				return err
			}
		}
		switch r.Status {
		case models.RideStatusCancelled:
			already = true
			return nil
		case models.RideStatusCompleted:
			return apperrors.Conflictf("ride already %s", r.Status)
		}
		wasPending = r.Status == models.RideStatusPending
		now := uc.now()
		r.Status = models.RideStatusCancelled
		r.CancelledAt = &now
		r.PauseStartedAt = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	if already {
		return ride, nil
	}

	event := models.RideCancelledEvent{RequestID: ride.ID}
	uc.publishToCustomer(ride, event)
	uc.publishToDriver(ride, event)
	if wasPending {
		// withdraw the open offer from the pool
		uc.bc.Publish(realtime.PoolTopic(string(ride.Category), ride.Area), event)
	}

	if err := uc.gw.PublishRideCancelled(ctx, ride); err != nil {
		logger.Warn("failed to publish ride cancelled event",
			logger.Int64("ride_id", ride.ID), logger.Err(err))
	}

	logger.Info("ride cancelled",
		logger.Int64("ride_id", ride.ID),
		logger.Int64("user_id", userID))
	return ride, nil
}
