package usecase

import (
	"context"
	"fmt"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	"github.com/blazevtc/blazeride/internal/pkg/realtime"
)

// RequestRide validates the request, resolves the dispatch area and
// offers the ride to the matching driver pool.
func (uc *rideUC) RequestRide(ctx context.Context, req *models.RideRequest) (*models.Ride, error) {
	if !req.Category.Valid() {
		return nil, apperrors.Invalidf("unknown ride category %q", req.Category)
	}
	if req.PickupLabel == "" || req.DropoffLabel == "" {
		return nil, apperrors.Invalidf("pickup and dropoff are required")
	}
	if req.Price <= 0 {
		return nil, apperrors.Invalidf("price must be positive")
	}

	if existing, err := uc.rides.ActiveRideForCustomer(ctx, req.CustomerID); err == nil && existing != nil {
		return nil, apperrors.Conflictf("customer %d already has an active ride %d", req.CustomerID, existing.ID)
	} else if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}

	area := req.Area
	if area == "" && req.PickupLat != nil && req.PickupLng != nil {
		resolved, err := uc.geocoder.ReverseArea(ctx, *req.PickupLat, *req.PickupLng)
		if err != nil {
			logger.Warn("reverse geocode failed, dispatching to default area",
				logger.Int64("customer_id", req.CustomerID),
				logger.Err(err))
		} else {
			area = resolved
		}
	}

	ride := &models.Ride{
		CustomerID:   req.CustomerID,
		Category:     req.Category,
		Area:         area,
		PickupLabel:  req.PickupLabel,
		PickupLat:    req.PickupLat,
		PickupLng:    req.PickupLng,
		DropoffLabel: req.DropoffLabel,
		DropoffLat:   req.DropoffLat,
		DropoffLng:   req.DropoffLng,
		Price:        req.Price,
		Status:       models.RideStatusPending,
		RequestedAt:  uc.now(),
	}

	created, err := uc.rides.CreateRide(ctx, ride)
	if err != nil {
		return nil, err
	}

	uc.bc.Publish(realtime.PoolTopic(string(created.Category), created.Area), models.RideRequestedEvent{
		RequestID:   created.ID,
		Category:    string(created.Category),
		Area:        created.Area,
		Pickup:      created.Pickup(),
		Dropoff:     created.Dropoff(),
		Price:       fmt.Sprintf("%d", created.Price),
		PriceText:   uc.formatPrice(created.Price),
		RequestedAt: created.RequestedAt,
	})

	if err := uc.gw.PublishRideCreated(ctx, created); err != nil {
		logger.Warn("failed to publish ride created event",
			logger.Int64("ride_id", created.ID),
			logger.Err(err))
	}

	logger.Info("ride requested",
		logger.Int64("ride_id", created.ID),
		logger.Int64("customer_id", created.CustomerID),
		logger.String("category", string(created.Category)),
		logger.String("area", created.Area))
	return created, nil
}
