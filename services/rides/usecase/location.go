package usecase

import (
	"context"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	"github.com/blazevtc/blazeride/internal/pkg/realtime"
)

// RelayDriverLocation refreshes presence, records the position and, if
// the driver has an active ride, relays it to the customer with the
// current trip leg.
func (uc *rideUC) RelayDriverLocation(ctx context.Context, driverID int64, lat, lng float64) error {
	if err := uc.presence.Touch(ctx, driverID); err != nil {
		logger.Warn("presence touch failed",
			logger.Int64("driver_id", driverID), logger.Err(err))
	}

	ride, err := uc.rides.ActiveRideForDriver(ctx, driverID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// off-trip drivers still report into their area's geo set
			area, gerr := uc.geocoder.ReverseArea(ctx, lat, lng)
			if gerr != nil {
				area = ""
			}
			return uc.presence.RecordLocation(ctx, area, driverID, lat, lng)
		}
		return err
	}

	if err := uc.presence.RecordLocation(ctx, ride.Area, driverID, lat, lng); err != nil {
		logger.Warn("failed to record driver location",
			logger.Int64("driver_id", driverID), logger.Err(err))
	}
	if err := uc.rides.UpdateDriverPosition(ctx, ride.ID, lat, lng); err != nil {
		logger.Warn("failed to persist driver position",
			logger.Int64("ride_id", ride.ID), logger.Err(err))
	}

	leg := "to_pickup"
	if ride.Status == models.RideStatusInProgress {
		leg = "to_dropoff"
	}
	uc.publishToCustomer(ride, models.DriverLocationEvent{
		RequestID: ride.ID,
		Lat:       lat,
		Lng:       lng,
		Leg:       leg,
	})
	return nil
}

// RelayRiderLocation forwards the customer's position to the assigned
// driver.
func (uc *rideUC) RelayRiderLocation(ctx context.Context, customerID int64, lat, lng float64) error {
	ride, err := uc.rides.ActiveRideForCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	if ride.DriverID == nil {
		return nil
	}
	uc.bc.Publish(realtime.DriverTopic(*ride.DriverID), models.RiderLocationEvent{
		RequestID: ride.ID,
		Lat:       lat,
		Lng:       lng,
	})
	return nil
}
