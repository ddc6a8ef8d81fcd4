package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blazevtc/blazeride/internal/pkg/models"
	"github.com/blazevtc/blazeride/services/rides/gateway"
)

func TestPush_SendsToUserTopic(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key=server-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":1,"failure":0}`))
	}))
	defer srv.Close()

	gw := gateway.NewPushGW(models.PushConfig{
		ServerKey: "server-key",
		Endpoint:  srv.URL,
		ChannelID: "rides",
	})

	err := gw.Push(context.Background(), 10, "Driver found", "On the way", map[string]string{"ride_id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/topics/user_10", got["to"])
	assert.Equal(t, "high", got["priority"])
}

func TestPush_NoServerKeyIsSilentNoOp(t *testing.T) {
	gw := gateway.NewPushGW(models.PushConfig{})
	assert.NoError(t, gw.Push(context.Background(), 10, "t", "b", nil))
}

func TestPush_RetriesTransientFailure(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"success":1,"failure":0}`))
	}))
	defer srv.Close()

	gw := gateway.NewPushGW(models.PushConfig{ServerKey: "k", Endpoint: srv.URL})
	require.NoError(t, gw.Push(context.Background(), 10, "t", "b", nil))
	assert.Equal(t, 2, hits)
}

func TestPush_ReportsProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":0,"failure":1}`))
	}))
	defer srv.Close()

	gw := gateway.NewPushGW(models.PushConfig{ServerKey: "k", Endpoint: srv.URL})
	assert.Error(t, gw.Push(context.Background(), 10, "t", "b", nil))
}
