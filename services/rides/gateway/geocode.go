package gateway

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/blazevtc/blazeride/internal/pkg/constants"
	"github.com/blazevtc/blazeride/internal/pkg/database"
	httppkg "github.com/blazevtc/blazeride/internal/pkg/http"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	"github.com/blazevtc/blazeride/services/rides"
)

// GeocodeGW resolves coordinates to dispatch area names through Google,
// falling back to Nominatim, with a Redis cache in front of both.
type GeocodeGW struct {
	cfg    models.GeocodeConfig
	redis  *database.RedisClient
	client *httppkg.Client
}

// NewGeocodeGW creates a new geocoding gateway
func NewGeocodeGW(cfg models.GeocodeConfig, redis *database.RedisClient) rides.Geocoder {
	return &GeocodeGW{
		cfg:    cfg,
		redis:  redis,
		client: httppkg.NewClient("", time.Duration(cfg.TimeoutSeconds)*time.Second),
	}
}

func (g *GeocodeGW) cacheKey(lat, lng float64) string {
	// four decimals is roughly 11 meters, close enough for area names
	return fmt.Sprintf(constants.KeyReverseGeocode,
		fmt.Sprintf("%.4f,%.4f,%s", lat, lng, g.cfg.Language))
}

// ReverseArea resolves coordinates to an area name.
func (g *GeocodeGW) ReverseArea(ctx context.Context, lat, lng float64) (string, error) {
	key := g.cacheKey(lat, lng)
	if cached, err := g.redis.Get(ctx, key); err == nil && cached != "" {
		return cached, nil
	}

	area, err := g.reverseGoogle(ctx, lat, lng)
	if err != nil {
		logger.Debug("google reverse geocode failed, trying nominatim",
			logger.Err(err))
		area, err = g.reverseNominatim(ctx, lat, lng)
	}
	if err != nil {
		return "", err
	}

	ttl := time.Duration(g.cfg.CacheTTLSeconds) * time.Second
	if err := g.redis.Set(ctx, key, area, ttl); err != nil {
		logger.Warn("failed to cache geocode result", logger.Err(err))
	}
	return area, nil
}

type googleGeocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		AddressComponents []struct {
			LongName string   `json:"long_name"`
			Types    []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
}

func (g *GeocodeGW) reverseGoogle(ctx context.Context, lat, lng float64) (string, error) {
	if g.cfg.GoogleAPIKey == "" {
		return "", fmt.Errorf("no google api key configured")
	}

	u := fmt.Sprintf(
		"https://maps.googleapis.com/maps/api/geocode/json?latlng=%f,%f&key=%s&language=%s&result_type=neighborhood|sublocality|locality",
		lat, lng, url.QueryEscape(g.cfg.GoogleAPIKey), url.QueryEscape(g.cfg.Language),
	)
	var resp googleGeocodeResponse
	if err := g.client.GetJSON(ctx, u, nil, &resp); err != nil {
		return "", err
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		return "", fmt.Errorf("google geocode returned status %s", resp.Status)
	}

	// prefer the finest-grained component we recognize
	preference := []string{"neighborhood", "sublocality", "locality"}
	for _, want := range preference {
		for _, comp := range resp.Results[0].AddressComponents {
			for _, typ := range comp.Types {
				if typ == want {
					return comp.LongName, nil
				}
			}
		}
	}
	return "", fmt.Errorf("google geocode returned no usable component")
}

type nominatimResponse struct {
	Address struct {
		Neighbourhood string `json:"neighbourhood"`
		Suburb        string `json:"suburb"`
		City          string `json:"city"`
		Town          string `json:"town"`
	} `json:"address"`
}

func (g *GeocodeGW) reverseNominatim(ctx context.Context, lat, lng float64) (string, error) {
	base := g.cfg.NominatimURL
	if base == "" {
		base = "https://nominatim.openstreetmap.org"
	}
	u := fmt.Sprintf("%s/reverse?lat=%f&lon=%f&format=json&accept-language=%s",
		base, lat, lng, url.QueryEscape(g.cfg.Language))

	var resp nominatimResponse
	headers := map[string]string{"User-Agent": "blazeride-dispatch"}
	if err := g.client.GetJSON(ctx, u, headers, &resp); err != nil {
		return "", err
	}

	for _, candidate := range []string{
		resp.Address.Neighbourhood,
		resp.Address.Suburb,
		resp.Address.City,
		resp.Address.Town,
	} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("nominatim returned no usable component")
}
