package providers

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/solar-energy-estimator/internal/weather"
)

// GoogleGeocoder implements weather.ReverseGeocoder on top of the Google Maps
// Geocoding API. It is used instead of Nominatim when an API key is configured.
type GoogleGeocoder struct {
	name    string
	circuit *gobreaker.CircuitBreaker
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogleGeocoder configures the geocoder package with apiKey.
// The key is package-global in geocoder, so only one Google key per process.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{
		name:    "google",
		circuit: newCircuitBreaker("google-geocoder"),
		reverse: geocoder.GeocodingReverse,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

// Reverse returns the city, county or state of the best match for c.
func (g *GoogleGeocoder) Reverse(ctx context.Context, c weather.Coordinate) (string, error) {
	type reply struct {
		addresses []geocoder.Address
		err       error
	}

	result, err := g.circuit.Execute(func() (interface{}, error) {
		// The geocoder API takes no context; abandon the call on ctx expiry.
		ch := make(chan reply, 1)
		go func() {
			addrs, err := g.reverse(geocoder.Location{Latitude: c.Lat, Longitude: c.Lon})
			ch <- reply{addresses: addrs, err: err}
		}()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case r := <-ch:
			if r.err != nil {
				return nil, r.err
			}
			return r.addresses, nil
		}
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", weather.NewUpstreamError(g.name, "reverse", err)
	}

	addresses, ok := result.([]geocoder.Address)
	if !ok {
		return "", fmt.Errorf("unexpected result type from circuit breaker")
	}
	if len(addresses) == 0 {
		return weather.UnknownRegion, nil
	}

	a := addresses[0]
	return weather.FirstName(a.City, a.County, a.State), nil
}
