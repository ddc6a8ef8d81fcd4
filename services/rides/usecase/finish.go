package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/constants"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/models"
)

// settle closes any open pause interval, computes the pause fee and
// moves the ride to completed. Runs inside the row lock.
func (uc *rideUC) settle(r *models.Ride) {
	now := uc.now()
	closePause(r, now)
	fee := pauseFee(r.PauseSeconds, uc.cfg.Rides)
	final := r.Price + fee
	r.FinalPrice = &final
	r.Status = models.RideStatusCompleted
	r.CompletedAt = &now
}

// FinishRide completes a ride and settles the fare. Legal from
// accepted as well as in progress; the caller must be the assigned
// driver or an admin.
func (uc *rideUC) FinishRide(ctx context.Context, rideID, callerID int64, role string) (*models.Ride, error) {
	unlock := uc.lockRide(rideID)
	defer unlock()

	ride, err := uc.rides.UpdateInTx(ctx, rideID, func(r *models.Ride) error {
		if role != constants.RoleAdmin && !r.AssignedTo(callerID) {
			return apperrors.Forbiddenf("ride %d is not assigned to driver %d", rideID, callerID)
		}
		if r.Status != models.RideStatusAccepted && r.Status != models.RideStatusInProgress {
			return apperrors.Conflictf("cannot finish a %s ride", r.Status)
		}
		uc.settle(r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterComplete(ctx, ride)
	logger.Info("ride finished",
		logger.Int64("ride_id", ride.ID),
		logger.Int64("final_price", *ride.FinalPrice),
		logger.Int64("pause_seconds", ride.PauseSeconds))
	return ride, nil
}

// ForceCompleteRide settles a ride whose driver went dark. Open to the
// ride's customer and to admins; refused while the driver's presence
// is still fresh.
func (uc *rideUC) ForceCompleteRide(ctx context.Context, rideID, callerID int64, role string) (*models.Ride, error) {
	current, err := uc.rides.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if role != constants.RoleAdmin && current.CustomerID != callerID {
		return nil, apperrors.Forbiddenf("user %d is not the customer of ride %d", callerID, rideID)
	}
	if current.DriverID != nil {
		if err := uc.requireDriverOffline(ctx, *current.DriverID); err != nil {
			return nil, err
		}
	}

	unlock := uc.lockRide(rideID)
	defer unlock()

	ride, err := uc.rides.UpdateInTx(ctx, rideID, func(r *models.Ride) error {
		if role != constants.RoleAdmin && r.CustomerID != callerID {
			return apperrors.Forbiddenf("user %d is not the customer of ride %d", callerID, rideID)
		}
		if r.Status != models.RideStatusAccepted && r.Status != models.RideStatusInProgress {
			return apperrors.Conflictf("cannot force-complete a %s ride", r.Status)
		}
		uc.settle(r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterComplete(ctx, ride)
	logger.Warn("ride force-completed",
		logger.Int64("ride_id", ride.ID),
		logger.Int64("caller_id", callerID),
		logger.String("role", role))
	return ride, nil
}

// requireDriverOffline succeeds only when the driver's last-seen marker
// is missing or older than the offline timeout.
func (uc *rideUC) requireDriverOffline(ctx context.Context, driverID int64) error {
	last, err := uc.presence.LastSeen(ctx, driverID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	age := int64(uc.now().Sub(last).Seconds())
	if age < uc.cfg.Rides.OfflineTimeoutSeconds {
		return apperrors.Conflictf("driver %d was seen %ds ago, still online", driverID, age)
	}
	return nil
}

// afterComplete publishes the settlement to both participants and makes
// sure a payment row exists.
func (uc *rideUC) afterComplete(ctx context.Context, ride *models.Ride) {
	event := models.RideFinishedEvent{
		RequestID:    ride.ID,
		Price:        ride.Price,
		PauseSeconds: ride.PauseSeconds,
		PauseFee:     pauseFee(ride.PauseSeconds, uc.cfg.Rides),
		FinalPrice:   *ride.FinalPrice,
	}
	uc.publishToCustomer(ride, event)
	uc.publishToDriver(ride, event)

	uc.ensureCashPayment(ctx, ride)

	if err := uc.gw.PublishRideCompleted(ctx, ride); err != nil {
		logger.Warn("failed to publish ride completed event",
			logger.Int64("ride_id", ride.ID), logger.Err(err))
	}
	if err := uc.notifier.Push(ctx, ride.CustomerID, "Ride completed",
		"Fare: "+uc.formatPrice(*ride.FinalPrice), map[string]string{"ride_id": itoa(ride.ID)}); err != nil {
		logger.Warn("push notification failed",
			logger.Int64("user_id", ride.CustomerID), logger.Err(err))
	}
}

// ensureCashPayment records a pending cash payment unless the ride
// already has one, so every completed ride carries a settlement row.
func (uc *rideUC) ensureCashPayment(ctx context.Context, ride *models.Ride) {
	if _, err := uc.payments.PaymentByRide(ctx, ride.ID); err == nil {
		return
	} else if !apperrors.IsNotFound(err) {
		logger.Error("failed to look up payment for completed ride",
			logger.Int64("ride_id", ride.ID), logger.Err(err))
		return
	}

	payment := &models.Payment{
		ID:             uuid.New(),
		RideID:         ride.ID,
		Amount:         *ride.FinalPrice,
		Currency:       uc.cfg.Rides.Currency,
		Wallet:         models.WalletCash,
		Provider:       "cash",
		IdempotencyKey: uuid.NewString(),
		Status:         models.PaymentStatusPending,
		CreatedAt:      uc.now(),
		UpdatedAt:      uc.now(),
	}
	if _, err := uc.payments.CreatePayment(ctx, payment); err != nil {
		logger.Error("failed to create cash payment",
			logger.Int64("ride_id", ride.ID), logger.Err(err))
	}
}
