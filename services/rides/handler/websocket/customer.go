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

// CustomerSocket serves the customer-side WebSocket. Customers may hold
// several connections at once; every one of them subscribes to both
// customer topic aliases.
type CustomerSocket struct {
	cfg      *models.Config
	rideUC   rides.RideUC
	router   *realtime.Router
	upgrader gorilla.Upgrader
}

// NewCustomerSocket creates a new customer socket handler
func NewCustomerSocket(cfg *models.Config, rideUC rides.RideUC, router *realtime.Router) *CustomerSocket {
	return &CustomerSocket{
		cfg:      cfg,
		rideUC:   rideUC,
		router:   router,
		upgrader: wspkg.NewUpgrader(),
	}
}

// Handle upgrades the connection, subscribes the customer to their
// personal topics and runs the read loop.
func (s *CustomerSocket) Handle(c echo.Context) error {
	claims, err := wspkg.Authenticate(c, s.cfg.JWT)
	if err != nil {
		return err
	}
	if claims.Role != constants.RoleCustomer {
		return echo.NewHTTPError(http.StatusForbidden, "Customer role required")
	}

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := NewClient(conn)
	go client.WritePump()

	for _, topic := range realtime.CustomerTopics(claims.UserID) {
		s.router.Subscribe(topic, client)
	}
	defer func() {
		s.router.UnsubscribeAll(client)
		client.Close()
	}()

	logger.Info("customer socket connected",
		logger.Int64("customer_id", claims.UserID),
		logger.String("conn_id", client.ID()))

	s.readLoop(c.Request().Context(), claims.UserID, client)

	logger.Info("customer socket closed",
		logger.Int64("customer_id", claims.UserID),
		logger.String("conn_id", client.ID()))
	return nil
}

func (s *CustomerSocket) idleTimeout() time.Duration {
	return time.Duration(s.cfg.Rides.IdleTimeoutSeconds) * time.Second
}

func (s *CustomerSocket) readLoop(ctx context.Context, customerID int64, client *Client) {
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
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseGoingAway, gorilla.CloseNormalClosure) {
				logger.Debug("customer socket read error",
					logger.Int64("customer_id", customerID), logger.Err(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(s.idleTimeout()))
		s.handleFrame(ctx, customerID, client, message)
	}
}

func (s *CustomerSocket) handleFrame(ctx context.Context, customerID int64, client *Client, message []byte) {
	var frame models.WSFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		client.SendJSON(models.WSError{Type: constants.FrameError, Message: "Malformed frame"})
		return
	}

	switch frame.Type {
	case constants.FramePing:
		client.SendJSON(pongFrame{Type: constants.FramePong})

	case constants.FrameRideChat:
		var f chatFrame
		if err := json.Unmarshal(message, &f); err != nil || f.RideID <= 0 {
			client.SendJSON(models.WSError{Type: constants.FrameError, Message: "rideId is required", Field: "rideId"})
			return
		}
		if err := s.rideUC.RelayChat(ctx, f.RideID, customerID, constants.RoleCustomer, f.Text, f.MessageID); err != nil {
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
		if err := s.rideUC.RelayRiderLocation(ctx, customerID, f.Lat, f.Lng); err != nil {
			logger.Debug("rider location relay failed",
				logger.Int64("customer_id", customerID), logger.Err(err))
		}

	default:
		client.SendJSON(models.WSError{Type: constants.FrameError, Message: "Unknown frame type: " + frame.Type})
	}
}
