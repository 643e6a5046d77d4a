package responder

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/poolmart/poolbot/internal/backend"
	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/internal/prompts"
	"github.com/poolmart/poolbot/pkg/log"
)

// locationClarification asks the user where they are. Returned, not erred,
// when no store, coordinates, or geocodable text could be resolved.
const locationClarification = "I need your location to find stores near you. Could you please share your city or zip code? 🗺️\n\nYour information will help us provide the best options available!"

var branchPattern = regexp.MustCompile(`branch\s*(\d+)`)

// Store answers store-location queries. Resolution priority: explicit store
// ID (entity or "branch N" in the query), then coordinates from entities,
// then geocoded location text. With nothing resolvable the whole query is
// treated as a location before giving up with a clarification.
type Store struct {
	gen      core.Generator
	stores   *backend.StoreClient
	geocoder *Geocoder
}

func NewStore(gen core.Generator, stores *backend.StoreClient, geocoder *Geocoder) *Store {
	return &Store{gen: gen, stores: stores, geocoder: geocoder}
}

func (r *Store) Respond(ctx context.Context, query string, entities core.Entities) string {
	logger := log.FromCtx(ctx)

	storeID := entities.StoreID
	radius := entities.Radius
	if radius == 0 {
		radius = backend.DefaultRadius
	}

	var coords *core.Coordinates
	if entities.Latitude != nil && entities.Longitude != nil {
		coords = &core.Coordinates{Latitude: *entities.Latitude, Longitude: *entities.Longitude}
	}
	if entities.Location.Coords != nil {
		coords = entities.Location.Coords
	}
	locationText := entities.Location.Text

	if m := branchPattern.FindStringSubmatch(strings.ToLower(query)); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			storeID = id
			logger.Debug().Int("store_id", id).Msg("branch number found in query")
		}
	}

	// Nothing extracted at all: the query itself may be a location, like a
	// bare ZIP code or city name.
	if locationText == "" && coords == nil && storeID == 0 {
		locationText = strings.TrimSpace(query)
	}

	if storeID != 0 {
		if reply, ok := r.describeStore(ctx, storeID, radius); ok {
			return reply
		}
		// Detail lookup failed; carry on with whatever location we have.
	}

	if coords == nil && locationText != "" {
		if resolved, ok := r.geocoder.Geocode(ctx, locationText); ok {
			coords = &resolved
		}
	}

	if coords != nil {
		results, err := r.stores.Search(ctx, coords.Latitude, coords.Longitude, radius)
		if err != nil {
			return apologize(ctx, "store search failed", err)
		}

		place := locationText
		if place == "" {
			place = fmt.Sprintf("coordinates %g, %g", coords.Latitude, coords.Longitude)
		}
		task := fmt.Sprintf("Provide information about stores near %s", place)
		reply, err := answer(ctx, r.gen, prompts.Store, task, []contextBlock{{"store_results", results}})
		if err != nil {
			return apologize(ctx, "store search answer failed", err)
		}
		return reply
	}

	return locationClarification
}

// describeStore answers from a store-detail lookup, with nearby stores
// included when the detail payload carries coordinates. Returns ok=false
// when the detail lookup failed and the caller should fall back to search.
func (r *Store) describeStore(ctx context.Context, storeID, radius int) (string, bool) {
	detail, err := r.stores.Detail(ctx, storeID)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Int("store_id", storeID).Msg("store detail failed, falling back to search")
		return "", false
	}

	blocks := []contextBlock{{"store_details", detail.Raw}}
	if detail.Location != nil {
		nearby, err := r.stores.Search(ctx, detail.Location.Latitude, detail.Location.Longitude, radius)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Int("store_id", storeID).Msg("nearby store search failed")
		} else {
			blocks = append(blocks, contextBlock{"nearby_stores", nearby})
		}
	}

	task := fmt.Sprintf("Provide information about store with ID %d", storeID)
	reply, err := answer(ctx, r.gen, prompts.Store, task, blocks)
	if err != nil {
		// The store lookup already succeeded, so a generation failure
		// ends the attempt here instead of retrying via coordinate search.
		return apologize(ctx, "store detail answer failed", err), true
	}
	return reply, true
}
