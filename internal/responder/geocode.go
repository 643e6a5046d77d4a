package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/pkg/log"
)

// unknownLocation is the sentinel the model must emit when it cannot place
// the location.
const unknownLocation = "UNKNOWN_LOCATION"

const geocodePrompt = `You are a geocoding assistant. Given a location name, provide the approximate latitude and longitude coordinates.

Location: %s

If this is a recognizable city, town, or place in the United States, respond with ONLY a JSON object containing latitude and longitude.
If you don't recognize this as a valid location, respond with ONLY the text '` + unknownLocation + `'.

Example response for 'New York': {"latitude": 40.7128, "longitude": -74.0060}`

// Geocoder resolves free-text locations to coordinates. Five-digit ZIP
// codes resolve to stand-in coordinates derived from the digits; everything
// else is asked of the model, which answers strict JSON or the unknown
// sentinel.
type Geocoder struct {
	gen core.Generator
}

func NewGeocoder(gen core.Generator) *Geocoder {
	return &Geocoder{gen: gen}
}

// Geocode returns coordinates for the location, or false when it cannot be
// resolved. Resolution failure is not an error; the caller asks the user
// to clarify instead.
func (g *Geocoder) Geocode(ctx context.Context, location string) (core.Coordinates, bool) {
	location = strings.TrimSpace(location)

	if zip, ok := parseZIP(location); ok {
		coords := zipCoordinates(zip)
		log.FromCtx(ctx).Debug().Str("zip", location).Float64("lat", coords.Latitude).Float64("lng", coords.Longitude).Msg("resolved ZIP to stand-in coordinates")
		return coords, true
	}

	messages := []core.Message{core.User(fmt.Sprintf(geocodePrompt, location))}
	reply, err := g.gen.Generate(ctx, messages, core.GenerateOptions{})
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("location", location).Msg("geocoding call failed")
		return core.Coordinates{}, false
	}

	reply = strings.TrimSpace(reply)
	if reply == unknownLocation {
		return core.Coordinates{}, false
	}

	var parsed struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil || parsed.Latitude == nil || parsed.Longitude == nil {
		log.FromCtx(ctx).Warn().Str("location", location).Str("reply", reply).Msg("unusable geocoding reply")
		return core.Coordinates{}, false
	}
	return core.Coordinates{Latitude: *parsed.Latitude, Longitude: *parsed.Longitude}, true
}

func parseZIP(s string) (int, bool) {
	if len(s) != 5 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, _ := strconv.Atoi(s)
	return n, true
}

// zipCoordinates maps a ZIP onto continental-US-shaped coordinates. They
// are deterministic stand-ins, not real geography.
func zipCoordinates(zip int) core.Coordinates {
	return core.Coordinates{
		Latitude:  float64(25 + (zip/1000)%25),
		Longitude: -65 - float64(zip%1000)/10,
	}
}
