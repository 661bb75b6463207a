// internal/adapters/googleplaces/client.go
package googleplaces

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"placefinder/internal/adapters/observability"
	"placefinder/internal/domain"
)

const (
	// DefaultBase is the Places API (New) places collection root.
	DefaultBase = "https://places.googleapis.com/v1/places"

	// fieldMask limits the response to the fields the decode consumes.
	fieldMask = "places.displayName,places.formattedAddress,places.location," +
		"places.rating,places.photos,places.priceLevel,places.reviews"

	// maxResultCount is the provider's single-page cap; no pagination.
	maxResultCount = 20
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if base == "" {
		base = DefaultBase
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 10 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrUnauthorized = errors.New("places: unauthorized")
	ErrBadRequest   = errors.New("places: bad request")
)

// request/response shapes for POST :searchText

type searchTextRequest struct {
	TextQuery      string        `json:"textQuery"`
	MaxResultCount int           `json:"maxResultCount"`
	LocationBias   *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchText performs one text-search call, optionally biased toward
// a circular area, and returns the raw place objects in provider
// order. The call is bounded by the client's fixed timeout; it either
// completes or fails, nothing is retried.
func (c *Client) SearchText(ctx context.Context, query string, bias *domain.Bias) ([]map[string]any, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	payload := searchTextRequest{TextQuery: query, MaxResultCount: maxResultCount}
	if bias != nil {
		payload.LocationBias = &locationBias{Circle: circle{
			Center: latLng{Latitude: bias.Lat, Longitude: bias.Lon},
			Radius: bias.RadiusM,
		}}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+":searchText", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.key)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("places", "searchText", 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("places", "searchText", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode

	case http.StatusUnauthorized, http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, ErrUnauthorized

	case http.StatusBadRequest:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, strings.TrimSpace(string(b)))

	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		Places []map[string]any `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Places, nil
}
