package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	apperrors "goaround-bot/internal/errors"
	"goaround-bot/internal/models"
)

// Geocoder resolves addresses and coordinates
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]models.GeocodeResult, error)
	ReverseGeocode(ctx context.Context, latLng models.LatLng) ([]models.GeocodeResult, error)
}

// PlacesSearcher runs nearby searches
type PlacesSearcher interface {
	SearchNearby(ctx context.Context, req models.NearbySearchRequest) ([]models.Place, error)
}

// ResolveStatus is the result of resolving a location's position
type ResolveStatus int

const (
	// Resolved means the location has coordinates
	Resolved ResolveStatus = iota
	// Ambiguous means the address matched several candidates
	Ambiguous
	// Unresolved means the address matched nothing
	Unresolved
)

// Resolution describes how a location's position was resolved
type Resolution struct {
	Status     ResolveStatus
	Candidates []models.GeocodeResult
}

// SearchStatus is the result of one search attempt
type SearchStatus int

const (
	SearchCompleted SearchStatus = iota
	SearchDisabled
	SearchAmbiguous
	SearchNotFound
)

// SearchOutcome describes a finished search attempt
type SearchOutcome struct {
	Status     SearchStatus
	Location   *models.SavedLocation
	Candidates []models.GeocodeResult
}

// SearchService turns a configured location into cached place results
type SearchService struct {
	locations    *LocationRepository
	places       *PlaceCache
	settings     *SettingsService
	geocoder     Geocoder
	searcher     PlacesSearcher
	languageCode string
	regionCode   string
	logger       *logrus.Logger
}

// NewSearchService creates a new search service
func NewSearchService(
	locations *LocationRepository,
	places *PlaceCache,
	settings *SettingsService,
	geocoder Geocoder,
	searcher PlacesSearcher,
	languageCode string,
	regionCode string,
	logger *logrus.Logger,
) *SearchService {
	return &SearchService{
		locations:    locations,
		places:       places,
		settings:     settings,
		geocoder:     geocoder,
		searcher:     searcher,
		languageCode: languageCode,
		regionCode:   regionCode,
		logger:       logger,
	}
}

// Resolve fills in the coordinates and title of a location in memory.
// A text query is forward-geocoded: no match yields ErrNoGeocodeResults and several
// matches are returned as candidates. Shared coordinates are reverse-geocoded for a
// title, and a failure there is only logged.
func (s *SearchService) Resolve(ctx context.Context, location *models.SavedLocation) (Resolution, error) {
	if location.LatLng == nil {
		if location.TextQuery == "" {
			return Resolution{Status: Unresolved}, apperrors.ErrNoGeocodeResults
		}

		results, err := s.geocoder.Geocode(ctx, location.TextQuery)
		if err != nil {
			return Resolution{Status: Unresolved}, fmt.Errorf("failed to geocode %q: %w", location.TextQuery, err)
		}

		switch len(results) {
		case 0:
			return Resolution{Status: Unresolved}, apperrors.ErrNoGeocodeResults
		case 1:
			latLng := results[0].Location
			location.LatLng = &latLng
			location.Title = results[0].FormattedAddress
			return Resolution{Status: Resolved}, nil
		default:
			return Resolution{Status: Ambiguous, Candidates: results}, nil
		}
	}

	if location.Title == "" {
		results, err := s.geocoder.ReverseGeocode(ctx, *location.LatLng)
		switch {
		case err != nil:
			s.logger.Warnf("Reverse geocoding failed for %.6f,%.6f: %v", location.LatLng.Latitude, location.LatLng.Longitude, err)
		case len(results) > 0:
			location.Title = results[0].FormattedAddress
		}
	}

	return Resolution{Status: Resolved}, nil
}

// Search runs the nearby search of a search-ready location and stores the results.
// The location is persisted only after the provider call and the place cache writes succeed.
func (s *SearchService) Search(ctx context.Context, userID int64, locationID string) (*SearchOutcome, error) {
	log := s.logger.WithFields(logrus.Fields{"user_id": userID, "location_id": locationID})

	location, err := s.locations.Get(ctx, userID, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, &apperrors.NotFoundError{Kind: "location", ID: locationID}
	}
	if !location.SearchReady() {
		return nil, &apperrors.StateError{UserID: userID, State: "search", Message: "location is not configured"}
	}

	resolution, err := s.Resolve(ctx, location)
	if err != nil {
		if resolution.Status == Unresolved {
			log.Infof("Location could not be resolved: %v", err)
			return &SearchOutcome{Status: SearchNotFound, Location: location}, nil
		}
		return nil, err
	}
	if resolution.Status == Ambiguous {
		return &SearchOutcome{Status: SearchAmbiguous, Location: location, Candidates: resolution.Candidates}, nil
	}

	includedTypes := models.ExpandCategories(location.PlacesCategories.Items())

	enabled, err := s.settings.SearchEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled {
		log.Info("Search skipped, global switch is off")
		return &SearchOutcome{Status: SearchDisabled, Location: location}, nil
	}

	places, err := s.searcher.SearchNearby(ctx, models.NearbySearchRequest{
		Center:        *location.LatLng,
		Radius:        location.Radius,
		IncludedTypes: includedTypes,
		LanguageCode:  s.languageCode,
		RegionCode:    s.regionCode,
	})
	if err != nil {
		log.Errorf("Nearby search failed: %v", err)
		return nil, err
	}

	ids := make([]string, 0, len(places))
	for _, place := range places {
		if err := s.places.Put(ctx, place); err != nil {
			return nil, fmt.Errorf("failed to cache place %s: %w", place.ID, err)
		}
		ids = append(ids, place.ID)
	}
	location.Places = ids

	if err := s.locations.Update(ctx, userID, locationID, *location); err != nil {
		return nil, err
	}

	log.Infof("Search found %d places", len(ids))
	return &SearchOutcome{Status: SearchCompleted, Location: location}, nil
}
