package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/blazevtc/blazeride/internal/pkg/constants"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	"github.com/blazevtc/blazeride/internal/pkg/realtime"
	wspkg "github.com/blazevtc/blazeride/internal/pkg/websocket"
	"github.com/blazevtc/blazeride/services/rides"
)

// DriverSocket serves the driver-side WebSocket. Each driver gets one
// canonical connection; a newer one evicts the old with a kick.
type DriverSocket struct {
	cfg      *models.Config
	rideUC   rides.RideUC
	registry *realtime.Registry
	upgrader gorilla.Upgrader
}

// NewDriverSocket creates a new driver socket handler
func NewDriverSocket(cfg *models.Config, rideUC rides.RideUC, registry *realtime.Registry) *DriverSocket {
	return &DriverSocket{
		cfg:      cfg,
		rideUC:   rideUC,
		registry: registry,
		upgrader: wspkg.NewUpgrader(),
	}
}

// Handle upgrades the connection, registers the driver session and
// runs the read loop until the socket dies.
func (s *DriverSocket) Handle(c echo.Context) error {
	claims, err := wspkg.Authenticate(c, s.cfg.JWT)
	if err != nil {
		return err
	}
	if claims.Role != constants.RoleDriver {
		return echo.NewHTTPError(http.StatusForbidden, "Driver role required")
	}

	category := c.QueryParam("category")
	if !models.RideCategory(category).Valid() {
		category = string(models.CategoryEco)
	}
	area := c.QueryParam("area")

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := NewClient(conn)
	go client.WritePump()

	s.registry.Register(claims.UserID, &realtime.Session{
		Sub:         client,
		PoolTopic:   realtime.PoolTopic(category, area),
		DriverTopic: realtime.DriverTopic(claims.UserID),
	})
	defer func() {
		s.registry.Unregister(claims.UserID, client)
		client.Close()
	}()

	ctx := c.Request().Context()
	if err := s.rideUC.TouchPresence(ctx, claims.UserID); err != nil {
		logger.Warn("initial presence touch failed",
			logger.Int64("driver_id", claims.UserID), logger.Err(err))
	}

	logger.Info("driver socket connected",
		logger.Int64("driver_id", claims.UserID),
		logger.String("conn_id", client.ID()),
		logger.String("category", category),
		logger.String("area", area))

	s.readLoop(ctx, claims.UserID, client)

	logger.Info("driver socket closed",
		logger.Int64("driver_id", claims.UserID),
		logger.String("conn_id", client.ID()))
	return nil
}

func (s *DriverSocket) idleTimeout() time.Duration {
	return time.Duration(s.cfg.Rides.IdleTimeoutSeconds) * time.Second
}

func (s *DriverSocket) readLoop(ctx context.Context, driverID int64, client *Client) {
	conn := client.conn
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(s.idleTimeout()))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.idleTimeout()))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseGoingAway, gorilla.CloseNormalClosure, constants.CloseCodeKicked) {
				logger.Debug("driver socket read error",
					logger.Int64("driver_id", driverID), logger.Err(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(s.idleTimeout()))
		s.handleFrame(ctx, driverID, client, message)
	}
}

func (s *DriverSocket) handleFrame(ctx context.Context, driverID int64, client *Client, message []byte) {
	var frame models.WSFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		client.SendJSON(models.WSError{Type: constants.FrameError, Message: "Malformed frame"})
		return
	}

	switch frame.Type {
	case constants.FramePing:
		if err := s.rideUC.TouchPresence(ctx, driverID); err != nil {
			logger.Warn("presence touch failed",
				logger.Int64("driver_id", driverID), logger.Err(err))
		}
		client.SendJSON(pongFrame{Type: constants.FramePong})

	case constants.FrameRideAccept:
		var f acceptFrame
		if err := json.Unmarshal(message, &f); err != nil || f.RideID <= 0 {
			client.SendJSON(models.WSError{Type: constants.FrameError, Message: "rideId is required", Field: "rideId"})
			return
		}
		if _, err := s.rideUC.AcceptRide(ctx, f.RideID, driverID); err != nil {
			client.SendJSON(models.WSError{Type: constants.FrameError, Message: errorMessage(err), Field: "rideId"})
			return
		}
		client.SendJSON(models.WSAck{Type: constants.FrameOK, Event: constants.FrameRideAccept, RideID: f.RideID})

	case constants.FrameDriverArrive:
		var f arrivedFrame
		if err := json.Unmarshal(message, &f); err != nil || f.RideID <= 0 {
			client.SendJSON(models.WSError{Type: constants.FrameError, Message: "rideId is required", Field: "rideId"})
			return
		}
		if _, err := s.rideUC.DriverArrived(ctx, f.RideID, driverID); err != nil {
			client.SendJSON(models.WSError{Type: constants.FrameError, Message: errorMessage(err), Field: "rideId"})
			return
		}
		client.SendJSON(models.WSAck{Type: constants.FrameOK, Event: constants.FrameDriverArrive, RideID: f.RideID})

	case constants.FrameRideChat:
		var f chatFrame
		if err := json.Unmarshal(message, &f); err != nil || f.RideID <= 0 {
			client.SendJSON(models.WSError{Type: constants.FrameError, Message: "rideId is required", Field: "rideId"})
			return
		}
		if err := s.rideUC.RelayChat(ctx, f.RideID, driverID, constants.RoleDriver, f.Text, f.MessageID); err != nil {
			client.SendJSON(models.WSError{Type: constants.FrameError, Message: errorMessage(err)})
			return
		}
		client.SendJSON(models.WSAck{Type: constants.FrameOK, Event: constants.FrameRideChat, RideID: f.RideID})

	case constants.FrameLocation:
		var f locationFrame
		if err := json.Unmarshal(message, &f); err != nil {
			client.SendJSON(models.WSError{Type: constants.FrameError, Message: "Malformed location"})
			return
		}
		if err := s.rideUC.RelayDriverLocation(ctx, driverID, f.Lat, f.Lng); err != nil {
			logger.Debug("driver location relay failed",
				logger.Int64("driver_id", driverID), logger.Err(err))
		}

	default:
		client.SendJSON(models.WSError{Type: constants.FrameError, Message: "Unknown frame type: " + frame.Type})
	}
}
