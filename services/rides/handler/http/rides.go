package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/middleware"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	nrpkg "github.com/blazevtc/blazeride/internal/pkg/newrelic"
	"github.com/blazevtc/blazeride/internal/utils"
	"github.com/blazevtc/blazeride/services/rides"
)

// RidesHandler handles HTTP requests for ride operations
type RidesHandler struct {
	rideUC rides.RideUC
}

// NewRidesHandler creates a new ride HTTP handler
func NewRidesHandler(rideUC rides.RideUC) *RidesHandler {
	return &RidesHandler{
		rideUC: rideUC,
	}
}

func rideIDParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("rideID"), 10, 64)
	return id, err == nil && id > 0
}

// RequestRide handles ride creation by a customer
func (h *RidesHandler) RequestRide(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.RequestRide")

	var req models.RideRequest
	if err := c.Bind(&req); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	req.CustomerID = middleware.UserID(c)

	ride, err := h.rideUC.RequestRide(c.Request().Context(), &req)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Ride requested", ride)
}

// AcceptRide handles a driver accepting an open ride offer
func (h *RidesHandler) AcceptRide(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.AcceptRide")

	rideID, ok := rideIDParam(c)
	if !ok {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	ride, err := h.rideUC.AcceptRide(c.Request().Context(), rideID, middleware.UserID(c))
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride accepted", ride)
}

// DriverArrived handles the arrival notification from the driver
func (h *RidesHandler) DriverArrived(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.DriverArrived")

	rideID, ok := rideIDParam(c)
	if !ok {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	ride, err := h.rideUC.DriverArrived(c.Request().Context(), rideID, middleware.UserID(c))
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Arrival recorded", ride)
}

// StartRide handles the trip start request from the driver
func (h *RidesHandler) StartRide(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.StartRide")

	rideID, ok := rideIDParam(c)
	if !ok {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	ride, err := h.rideUC.StartRide(c.Request().Context(), rideID, middleware.UserID(c))
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip started", ride)
}

// PauseRide opens a pause interval on the trip
func (h *RidesHandler) PauseRide(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.PauseRide")

	rideID, ok := rideIDParam(c)
	if !ok {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	ride, err := h.rideUC.PauseRide(c.Request().Context(), rideID, middleware.UserID(c))
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip paused", ride)
}

// ResumeRide closes the open pause interval
func (h *RidesHandler) ResumeRide(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.ResumeRide")

	rideID, ok := rideIDParam(c)
	if !ok {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	ride, err := h.rideUC.ResumeRide(c.Request().Context(), rideID, middleware.UserID(c))
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip resumed", ride)
}

// FinishRide completes the trip and settles the fare
func (h *RidesHandler) FinishRide(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.FinishRide")

	rideID, ok := rideIDParam(c)
	if !ok {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	ride, err := h.rideUC.FinishRide(c.Request().Context(), rideID, middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip completed", ride)
}

// CancelRide cancels the ride on behalf of either participant
func (h *RidesHandler) CancelRide(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.CancelRide")

	rideID, ok := rideIDParam(c)
	if !ok {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	ride, err := h.rideUC.CancelRide(c.Request().Context(), rideID, middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride cancelled", ride)
}

// ForceCompleteRide lets the customer, or an admin, settle a ride with
// an offline driver
func (h *RidesHandler) ForceCompleteRide(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.ForceCompleteRide")

	rideID, ok := rideIDParam(c)
	if !ok {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	userID := middleware.UserID(c)
	role := middleware.UserRole(c)
	ride, err := h.rideUC.ForceCompleteRide(c.Request().Context(), rideID, userID, role)
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}

	logger.Warn("ride force-completed via HTTP",
		logger.Int64("ride_id", rideID),
		logger.Int64("caller_id", userID),
		logger.String("role", role))
	return utils.SuccessResponse(c, http.StatusOK, "Trip completed", ride)
}

// LiveRide returns the caller's current ride, if any
func (h *RidesHandler) LiveRide(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.LiveRide")

	ride, err := h.rideUC.LiveRide(c.Request().Context(), middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Live ride", ride)
}

type locationBody struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// relayTarget checks that the ride in the URL belongs to the caller and
// is still live. A ride that already reached a terminal state answers
// 410 with an X-Ride-Ended marker so clients stop reporting against it.
func (h *RidesHandler) relayTarget(c echo.Context, rideID int64) error {
	ride, err := h.rideUC.Ride(c.Request().Context(), rideID, middleware.UserID(c), middleware.UserRole(c))
	if err != nil {
		return err
	}
	if ride.Status.Terminal() {
		c.Response().Header().Set("X-Ride-Ended", "true")
		return apperrors.Gonef("ride %d has ended", rideID)
	}
	return nil
}

// DriverLocation relays a driver position report on an active ride
func (h *RidesHandler) DriverLocation(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.DriverLocation")

	rideID, ok := rideIDParam(c)
	if !ok {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}
	var body locationBody
	if err := c.Bind(&body); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if err := h.relayTarget(c, rideID); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	if err := h.rideUC.RelayDriverLocation(c.Request().Context(), middleware.UserID(c), body.Lat, body.Lng); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Location relayed", nil)
}

// RiderLocation relays the customer's position to the assigned driver
func (h *RidesHandler) RiderLocation(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Rides.RiderLocation")

	rideID, ok := rideIDParam(c)
	if !ok {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}
	var body locationBody
	if err := c.Bind(&body); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if err := h.relayTarget(c, rideID); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	if err := h.rideUC.RelayRiderLocation(c.Request().Context(), middleware.UserID(c), body.Lat, body.Lng); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Location relayed", nil)
}
