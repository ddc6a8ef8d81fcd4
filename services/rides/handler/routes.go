package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/blazevtc/blazeride/internal/pkg/middleware"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	"github.com/blazevtc/blazeride/internal/pkg/realtime"
	"github.com/blazevtc/blazeride/services/rides"
	httpHandler "github.com/blazevtc/blazeride/services/rides/handler/http"
	wsHandler "github.com/blazevtc/blazeride/services/rides/handler/websocket"
)

// Handler combines the HTTP and WebSocket handlers for the dispatch
// service.
type Handler struct {
	ridesHTTP  *httpHandler.RidesHandler
	payments   *httpHandler.PaymentHandler
	driverWS   *wsHandler.DriverSocket
	customerWS *wsHandler.CustomerSocket
	cfg        *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(
	cfg *models.Config,
	rideUC rides.RideUC,
	router *realtime.Router,
	registry *realtime.Registry,
) *Handler {
	return &Handler{
		ridesHTTP:  httpHandler.NewRidesHandler(rideUC),
		payments:   httpHandler.NewPaymentHandler(rideUC, cfg.Payment),
		driverWS:   wsHandler.NewDriverSocket(cfg, rideUC, registry),
		customerWS: wsHandler.NewCustomerSocket(cfg, rideUC, router),
		cfg:        cfg,
	}
}

// RegisterRoutes registers all HTTP and WebSocket routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Authenticated REST surface
	api := e.Group("/v1", middleware.JWTAuthMiddleware(h.cfg.JWT))

	ridesGroup := api.Group("/rides")
	ridesGroup.POST("", h.ridesHTTP.RequestRide)
	ridesGroup.GET("/live", h.ridesHTTP.LiveRide)
	ridesGroup.POST("/:rideID/accept", h.ridesHTTP.AcceptRide)
	ridesGroup.POST("/:rideID/arrive", h.ridesHTTP.DriverArrived)
	ridesGroup.POST("/:rideID/start", h.ridesHTTP.StartRide)
	ridesGroup.POST("/:rideID/pause", h.ridesHTTP.PauseRide)
	ridesGroup.POST("/:rideID/resume", h.ridesHTTP.ResumeRide)
	ridesGroup.POST("/:rideID/finish", h.ridesHTTP.FinishRide)
	ridesGroup.POST("/:rideID/cancel", h.ridesHTTP.CancelRide)
	ridesGroup.POST("/:rideID/force-complete", h.ridesHTTP.ForceCompleteRide)
	ridesGroup.POST("/:rideID/location", h.ridesHTTP.DriverLocation)
	ridesGroup.POST("/:rideID/rider-location", h.ridesHTTP.RiderLocation)

	// Provider webhooks authenticate with an HMAC signature, not a JWT
	e.POST("/webhooks/payment", h.payments.Webhook)

	// Live sockets carry their JWT on the upgrade request
	e.GET("/ws/driver", h.driverWS.Handle)
	e.GET("/ws/customer", h.customerWS.Handle)
}
