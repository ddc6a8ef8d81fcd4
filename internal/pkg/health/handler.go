package health

import (
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
)

// Status is the ping endpoint response body.
type Status struct {
	Service     string    `json:"service"`
	Status      string    `json:"status"`
	Hostname    string    `json:"hostname,omitempty"`
	Version     string    `json:"version,omitempty"`
	Environment string    `json:"environment,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewPingHandler returns a handler reporting basic liveness metadata.
func NewPingHandler(serviceName string) echo.HandlerFunc {
	hostname, _ := os.Hostname()

	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, Status{
			Service:     serviceName,
			Status:      "ok",
			Hostname:    hostname,
			Version:     os.Getenv("APP_VERSION"),
			Environment: os.Getenv("APP_ENV"),
			Timestamp:   time.Now().UTC(),
		})
	}
}

// RegisterHealthEndpoints wires the liveness endpoints. The /healthz
// and /ready variants exist for Kubernetes probes.
func RegisterHealthEndpoints(e *echo.Echo, serviceName string) {
	e.GET("/ping", NewPingHandler(serviceName))

	ok := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
	e.GET("/health", ok)
	e.GET("/healthz", ok)
	e.GET("/ready", ok)
}
