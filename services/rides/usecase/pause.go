package usecase

import (
	"context"
	"time"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/models"
)

// pauseFee charges per started minute of paused time beyond the free
// allowance.
func pauseFee(totalPauseSeconds int64, cfg models.RidesConfig) int64 {
	excess := totalPauseSeconds - cfg.FreeAllowanceSeconds
	if excess <= 0 {
		return 0
	}
	minutes := (excess + 59) / 60
	return minutes * cfg.PauseRatePerMinute
}

// closePause folds the open pause interval, if any, into the
// accumulated total. Safe to call on a ride that is not paused.
func closePause(r *models.Ride, now time.Time) {
	if r.PauseStartedAt == nil {
		return
	}
	delta := int64(now.Sub(*r.PauseStartedAt) / time.Second)
	if delta > 0 {
		r.PauseSeconds += delta
	}
	r.PauseStartedAt = nil
}

// PauseRide opens a pause interval. Legal from accepted (waiting at
// pickup) as well as in progress; pausing an already paused ride
// returns the current totals without opening a second interval.
func (uc *rideUC) PauseRide(ctx context.Context, rideID, driverID int64) (*models.Ride, error) {
	unlock := uc.lockRide(rideID)
	defer unlock()

	already := false
	ride, err := uc.rides.UpdateInTx(ctx, rideID, func(r *models.Ride) error {
		if !r.AssignedTo(driverID) {
			return apperrors.Forbiddenf("ride %d is not assigned to driver %d", rideID, driverID)
		}
		if r.Status != models.RideStatusAccepted && r.Status != models.RideStatusInProgress {
			return apperrors.Conflictf("cannot pause a %s ride", r.Status)
		}
		if r.Paused() {
			already = true
			return nil
		}
		now := uc.now()
		r.PauseStartedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if already {
		return ride, nil
	}

	uc.publishToCustomer(ride, models.RidePauseStartedEvent{
		RequestID:    ride.ID,
		PauseSeconds: ride.PauseSeconds,
		At:           *ride.PauseStartedAt,
	})
	logger.Info("ride paused", logger.Int64("ride_id", ride.ID))
	return ride, nil
}

// ResumeRide closes the open pause interval and reports the running
// totals to the customer. Resuming a ride that is not paused returns
// the current totals without publishing anything.
func (uc *rideUC) ResumeRide(ctx context.Context, rideID, driverID int64) (*models.Ride, error) {
	unlock := uc.lockRide(rideID)
	defer unlock()

	already := false
	ride, err := uc.rides.UpdateInTx(ctx, rideID, func(r *models.Ride) error {
		if !r.AssignedTo(driverID) {
			return apperrors.Forbiddenf("ride %d is not assigned to driver %d", rideID, driverID)
		}
		if !r.Paused() {
			already = true
			return nil
		}
		closePause(r, uc.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if already {
		return ride, nil
	}

	uc.publishToCustomer(ride, models.RidePauseStoppedEvent{
		RequestID:    ride.ID,
		PauseSeconds: ride.PauseSeconds,
		PauseFee:     pauseFee(ride.PauseSeconds, uc.cfg.Rides),
	})
	logger.Info("ride resumed",
		logger.Int64("ride_id", ride.ID),
		logger.Int64("pause_seconds", ride.PauseSeconds))
	return ride, nil
}
