package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	httpHandler "github.com/blazevtc/blazeride/services/rides/handler/http"
)

// fakeUC stubs the ride usecase with per-method hooks.
type fakeUC struct {
	requestRide   func(ctx context.Context, req *models.RideRequest) (*models.Ride, error)
	acceptRide    func(ctx context.Context, rideID, driverID int64) (*models.Ride, error)
	liveRide      func(ctx context.Context, userID int64, role string) (*models.Ride, error)
	ride          func(ctx context.Context, rideID, userID int64, role string) (*models.Ride, error)
	forceComplete func(ctx context.Context, rideID, callerID int64, role string) (*models.Ride, error)
	callback      func(ctx context.Context, cb *models.ProviderCallback) (*models.Payment, error)

	relayDriverLocation func(ctx context.Context, driverID int64, lat, lng float64) error
}

func (f *fakeUC) RequestRide(ctx context.Context, req *models.RideRequest) (*models.Ride, error) {
	return f.requestRide(ctx, req)
}
func (f *fakeUC) AcceptRide(ctx context.Context, rideID, driverID int64) (*models.Ride, error) {
	return f.acceptRide(ctx, rideID, driverID)
}
func (f *fakeUC) DriverArrived(context.Context, int64, int64) (*models.Ride, error) {
	return &models.Ride{}, nil
}
func (f *fakeUC) StartRide(context.Context, int64, int64) (*models.Ride, error) {
	return &models.Ride{}, nil
}
func (f *fakeUC) PauseRide(context.Context, int64, int64) (*models.Ride, error) {
	return &models.Ride{}, nil
}
func (f *fakeUC) ResumeRide(context.Context, int64, int64) (*models.Ride, error) {
	return &models.Ride{}, nil
}
func (f *fakeUC) FinishRide(context.Context, int64, int64, string) (*models.Ride, error) {
	return &models.Ride{}, nil
}
func (f *fakeUC) CancelRide(context.Context, int64, int64, string) (*models.Ride, error) {
	return &models.Ride{}, nil
}
func (f *fakeUC) ForceCompleteRide(ctx context.Context, rideID, callerID int64, role string) (*models.Ride, error) {
	return f.forceComplete(ctx, rideID, callerID, role)
}
func (f *fakeUC) LiveRide(ctx context.Context, userID int64, role string) (*models.Ride, error) {
	return f.liveRide(ctx, userID, role)
}
func (f *fakeUC) Ride(ctx context.Context, rideID, userID int64, role string) (*models.Ride, error) {
	return f.ride(ctx, rideID, userID, role)
}
func (f *fakeUC) RelayChat(context.Context, int64, int64, string, string, string) error {
	return nil
}
func (f *fakeUC) RelayDriverLocation(ctx context.Context, driverID int64, lat, lng float64) error {
	if f.relayDriverLocation != nil {
		return f.relayDriverLocation(ctx, driverID, lat, lng)
	}
	return nil
}
func (f *fakeUC) RelayRiderLocation(context.Context, int64, float64, float64) error  { return nil }
func (f *fakeUC) TouchPresence(context.Context, int64) error                         { return nil }
func (f *fakeUC) HandlePaymentCallback(ctx context.Context, cb *models.ProviderCallback) (*models.Payment, error) {
	return f.callback(ctx, cb)
}

func newRequestContext(method, path, body string, userID int64, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("user_role", role)
	return c, rec
}

func TestRequestRide_CreatedWithCallerAsCustomer(t *testing.T) {
	uc := &fakeUC{
		requestRide: func(_ context.Context, req *models.RideRequest) (*models.Ride, error) {
			assert.Equal(t, int64(10), req.CustomerID, "customer comes from the token, not the body")
			return &models.Ride{ID: 7, CustomerID: req.CustomerID, Status: models.RideStatusPending}, nil
		},
	}
	h := httpHandler.NewRidesHandler(uc)

	body := `{"category":"eco","pickup_label":"Marche Central","dropoff_label":"Bonapriso","price":1500,"customer_id":999}`
	c, rec := newRequestContext(http.MethodPost, "/v1/rides", body, 10, "customer")

	require.NoError(t, h.RequestRide(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":7`)
}

func TestRequestRide_ConflictMapsTo409(t *testing.T) {
	uc := &fakeUC{
		requestRide: func(context.Context, *models.RideRequest) (*models.Ride, error) {
			return nil, apperrors.Conflictf("customer 10 already has an active ride 3")
		},
	}
	h := httpHandler.NewRidesHandler(uc)

	c, rec := newRequestContext(http.MethodPost, "/v1/rides", `{"category":"eco"}`, 10, "customer")
	require.NoError(t, h.RequestRide(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAcceptRide_InvalidIDRejected(t *testing.T) {
	h := httpHandler.NewRidesHandler(&fakeUC{})

	c, rec := newRequestContext(http.MethodPost, "/v1/rides/abc/accept", "", 5, "driver")
	c.SetParamNames("rideID")
	c.SetParamValues("abc")

	require.NoError(t, h.AcceptRide(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptRide_ForbiddenMapsTo403(t *testing.T) {
	uc := &fakeUC{
		acceptRide: func(context.Context, int64, int64) (*models.Ride, error) {
			return nil, apperrors.Forbiddenf("ride 7 is held by driver 6")
		},
	}
	h := httpHandler.NewRidesHandler(uc)

	c, rec := newRequestContext(http.MethodPost, "/v1/rides/7/accept", "", 5, "driver")
	c.SetParamNames("rideID")
	c.SetParamValues("7")

	require.NoError(t, h.AcceptRide(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Forbidden"`)
	assert.NotContains(t, rec.Body.String(), "held by driver", "response must not leak the domain detail")
}

func TestLiveRide_NotFoundMapsTo404(t *testing.T) {
	uc := &fakeUC{
		liveRide: func(context.Context, int64, string) (*models.Ride, error) {
			return nil, apperrors.NotFoundf("no active ride")
		},
	}
	h := httpHandler.NewRidesHandler(uc)

	c, rec := newRequestContext(http.MethodGet, "/v1/rides/live", "", 10, "customer")
	require.NoError(t, h.LiveRide(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestForceComplete_UsesCallerIDAndRole(t *testing.T) {
	uc := &fakeUC{
		forceComplete: func(_ context.Context, rideID, callerID int64, role string) (*models.Ride, error) {
			assert.Equal(t, int64(7), rideID)
			assert.Equal(t, int64(10), callerID)
			assert.Equal(t, "customer", role)
			final := int64(2750)
			return &models.Ride{ID: rideID, Status: models.RideStatusCompleted, FinalPrice: &final}, nil
		},
	}
	h := httpHandler.NewRidesHandler(uc)

	c, rec := newRequestContext(http.MethodPost, "/v1/rides/7/force-complete", "", 10, "customer")
	c.SetParamNames("rideID")
	c.SetParamValues("7")

	require.NoError(t, h.ForceCompleteRide(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"final_price":2750`)
}

func TestDriverLocation_RelayedOnLiveRide(t *testing.T) {
	var relayed bool
	uc := &fakeUC{
		ride: func(_ context.Context, rideID, userID int64, role string) (*models.Ride, error) {
			assert.Equal(t, int64(7), rideID)
			assert.Equal(t, int64(5), userID)
			assert.Equal(t, "driver", role)
			return &models.Ride{ID: 7, Status: models.RideStatusInProgress}, nil
		},
	}
	uc.relayDriverLocation = func(_ context.Context, driverID int64, lat, lng float64) error {
		relayed = true
		assert.Equal(t, int64(5), driverID)
		assert.InDelta(t, 4.0511, lat, 1e-9)
		return nil
	}
	h := httpHandler.NewRidesHandler(uc)

	c, rec := newRequestContext(http.MethodPost, "/v1/rides/7/location", `{"lat":4.0511,"lng":9.7679}`, 5, "driver")
	c.SetParamNames("rideID")
	c.SetParamValues("7")

	require.NoError(t, h.DriverLocation(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, relayed)
}

func TestDriverLocation_StrangerRideMapsTo403Generic(t *testing.T) {
	uc := &fakeUC{
		ride: func(context.Context, int64, int64, string) (*models.Ride, error) {
			return nil, apperrors.Forbiddenf("ride 7 does not involve user 5")
		},
	}
	h := httpHandler.NewRidesHandler(uc)

	c, rec := newRequestContext(http.MethodPost, "/v1/rides/7/location", `{"lat":1,"lng":1}`, 5, "driver")
	c.SetParamNames("rideID")
	c.SetParamValues("7")

	require.NoError(t, h.DriverLocation(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Forbidden"`)
	assert.NotContains(t, rec.Body.String(), "does not involve", "response must not describe ride ownership")
}

func TestDriverLocation_EndedRideMapsTo410(t *testing.T) {
	uc := &fakeUC{
		ride: func(context.Context, int64, int64, string) (*models.Ride, error) {
			return &models.Ride{ID: 7, Status: models.RideStatusCompleted}, nil
		},
	}
	h := httpHandler.NewRidesHandler(uc)

	c, rec := newRequestContext(http.MethodPost, "/v1/rides/7/location", `{"lat":1,"lng":1}`, 5, "driver")
	c.SetParamNames("rideID")
	c.SetParamValues("7")

	require.NoError(t, h.DriverLocation(c))
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Ride-Ended"))
}

func TestRiderLocation_UnknownRideMapsTo404(t *testing.T) {
	uc := &fakeUC{
		ride: func(context.Context, int64, int64, string) (*models.Ride, error) {
			return nil, apperrors.NotFoundf("ride 7 not found")
		},
	}
	h := httpHandler.NewRidesHandler(uc)

	c, rec := newRequestContext(http.MethodPost, "/v1/rides/7/rider-location", `{"lat":1,"lng":1}`, 10, "customer")
	c.SetParamNames("rideID")
	c.SetParamValues("7")

	require.NoError(t, h.RiderLocation(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRiderLocation_CancelledRideMapsTo410(t *testing.T) {
	uc := &fakeUC{
		ride: func(context.Context, int64, int64, string) (*models.Ride, error) {
			return &models.Ride{ID: 7, Status: models.RideStatusCancelled}, nil
		},
	}
	h := httpHandler.NewRidesHandler(uc)

	c, rec := newRequestContext(http.MethodPost, "/v1/rides/7/rider-location", `{"lat":1,"lng":1}`, 10, "customer")
	c.SetParamNames("rideID")
	c.SetParamValues("7")

	require.NoError(t, h.RiderLocation(c))
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Ride-Ended"))
}
