package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/models"
)

const rideColumns = `
	id, customer_id, driver_id, category, area,
	pickup_label, pickup_lat, pickup_lng,
	dropoff_label, dropoff_lat, dropoff_lng,
	price, final_price, pause_seconds, pause_started_at, status,
	requested_at, accepted_at, arrived_at, started_at, completed_at, cancelled_at,
	driver_lat, driver_lng`

// RideRepo provides ride data access on PostgreSQL.
type RideRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

func NewRideRepository(cfg *models.Config, db *sqlx.DB) *RideRepo {
	return &RideRepo{
		cfg: cfg,
		db:  db,
	}
}

// CreateRide inserts a new ride and returns it with its assigned ID.
func (r *RideRepo) CreateRide(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	query := `
		INSERT INTO rides (
			customer_id, category, area,
			pickup_label, pickup_lat, pickup_lng,
			dropoff_label, dropoff_lat, dropoff_lng,
			price, status, requested_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(
		ctx,
		query,
		ride.CustomerID,
		ride.Category,
		ride.Area,
		ride.PickupLabel,
		ride.PickupLat,
		ride.PickupLng,
		ride.DropoffLabel,
		ride.DropoffLat,
		ride.DropoffLng,
		ride.Price,
		ride.Status,
		ride.RequestedAt,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create ride: %w", err)
	}

	created := *ride
	created.ID = id
	return &created, nil
}

// GetRide retrieves a ride by ID.
func (r *RideRepo) GetRide(ctx context.Context, id int64) (*models.Ride, error) {
	query := `SELECT` + rideColumns + ` FROM rides WHERE id = $1`

	var ride models.Ride
	if err := r.db.GetContext(ctx, &ride, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("ride %d not found", id)
		}
		return nil, fmt.Errorf("failed to get ride %d: %w", id, err)
	}
	return &ride, nil
}

func (r *RideRepo) activeRide(ctx context.Context, column string, userID int64) (*models.Ride, error) {
	query := `SELECT` + rideColumns + `
		FROM rides
		WHERE ` + column + ` = $1 AND status NOT IN ('completed', 'cancelled')
		ORDER BY requested_at DESC
		LIMIT 1`

	var ride models.Ride
	if err := r.db.GetContext(ctx, &ride, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("no active ride for user %d", userID)
		}
		return nil, fmt.Errorf("failed to get active ride: %w", err)
	}
	return &ride, nil
}

// ActiveRideForCustomer returns the customer's current non-terminal ride.
func (r *RideRepo) ActiveRideForCustomer(ctx context.Context, customerID int64) (*models.Ride, error) {
	return r.activeRide(ctx, "customer_id", customerID)
}

// ActiveRideForDriver returns the driver's current non-terminal ride.
func (r *RideRepo) ActiveRideForDriver(ctx context.Context, driverID int64) (*models.Ride, error) {
	return r.activeRide(ctx, "driver_id", driverID)
}

// UpdateInTx runs fn against the ride inside a transaction holding the
// row lock, then writes every mutable column back. A non-nil error from
// fn rolls the transaction back and is returned as-is.
func (r *RideRepo) UpdateInTx(ctx context.Context, id int64, fn func(*models.Ride) error) (*models.Ride, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT` + rideColumns + ` FROM rides WHERE id = $1 FOR UPDATE`

	var ride models.Ride
	if err := tx.GetContext(ctx, &ride, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("ride %d not found", id)
		}
		return nil, fmt.Errorf("failed to lock ride %d: %w", id, err)
	}

	if err := fn(&ride); err != nil {
		return nil, err
	}

	update := `
		UPDATE rides SET
			driver_id = $2, status = $3,
			price = $4, final_price = $5,
			pause_seconds = $6, pause_started_at = $7,
			accepted_at = $8, arrived_at = $9, started_at = $10,
			completed_at = $11, cancelled_at = $12,
			driver_lat = $13, driver_lng = $14
		WHERE id = $1
	`
	_, err = tx.ExecContext(
		ctx,
		update,
		ride.ID,
		ride.DriverID,
		ride.Status,
		ride.Price,
		ride.FinalPrice,
		ride.PauseSeconds,
		ride.PauseStartedAt,
		ride.AcceptedAt,
		ride.ArrivedAt,
		ride.StartedAt,
		ride.CompletedAt,
		ride.CancelledAt,
		ride.DriverLat,
		ride.DriverLng,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update ride %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ride update: %w", err)
	}
	return &ride, nil
}

// UpdateDriverPosition persists the last relayed driver position
// without touching the rest of the row.
func (r *RideRepo) UpdateDriverPosition(ctx context.Context, id int64, lat, lng float64) error {
	query := `UPDATE rides SET driver_lat = $2, driver_lng = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, lat, lng)
	if err != nil {
		return fmt.Errorf("failed to update driver position: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFoundf("ride %d not found", id)
	}
	return nil
}
