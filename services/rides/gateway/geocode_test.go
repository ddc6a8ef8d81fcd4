package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blazevtc/blazeride/internal/pkg/database"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	"github.com/blazevtc/blazeride/services/rides/gateway"
)

func setupRedis(t *testing.T) *database.RedisClient {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := database.NewRedisClient(models.RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestReverseArea_NominatimFallback(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		assert.Equal(t, "/reverse", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address":{"suburb":"Akwa","city":"Douala"}}`))
	}))
	defer srv.Close()

	gw := gateway.NewGeocodeGW(models.GeocodeConfig{
		NominatimURL:    srv.URL,
		CacheTTLSeconds: 3600,
		TimeoutSeconds:  5,
		Language:        "fr",
	}, setupRedis(t))

	area, err := gw.ReverseArea(context.Background(), 4.0511, 9.7679)
	require.NoError(t, err)
	assert.Equal(t, "Akwa", area, "finest-grained component wins")

	// second lookup is served from the cache
	area, err = gw.ReverseArea(context.Background(), 4.0511, 9.7679)
	require.NoError(t, err)
	assert.Equal(t, "Akwa", area)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestReverseArea_NoUsableComponent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{}}`))
	}))
	defer srv.Close()

	gw := gateway.NewGeocodeGW(models.GeocodeConfig{
		NominatimURL:   srv.URL,
		TimeoutSeconds: 5,
	}, setupRedis(t))

	_, err := gw.ReverseArea(context.Background(), 4.0511, 9.7679)
	assert.Error(t, err)
}

func TestReverseArea_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	gw := gateway.NewGeocodeGW(models.GeocodeConfig{
		NominatimURL:   srv.URL,
		TimeoutSeconds: 5,
	}, setupRedis(t))

	_, err := gw.ReverseArea(context.Background(), 4.0511, 9.7679)
	assert.Error(t, err)
}
