package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"goaround-bot/internal/constants"
	apperrors "goaround-bot/internal/errors"
	"goaround-bot/internal/models"
)

// Options holds the Google Maps Platform settings
type Options struct {
	APIKey       string
	GeocodingURL string
	PlacesURL    string
	PhotoBaseURL string
	LanguageCode string
	RegionCode   string
	// RetryWait overrides the initial backoff between retries
	RetryWait time.Duration
	// Transport replaces the HTTP transport, e.g. with a response cache
	Transport http.RoundTripper
}

// Client represents a Google Geocoding and Places API client
type Client struct {
	httpClient *resty.Client
	opts       Options
	logger     *logrus.Logger
}

// geocodeResponse is the Geocoding API response body
type geocodeResponse struct {
	Results []struct {
		FormattedAddress string   `json:"formatted_address"`
		PlaceID          string   `json:"place_id"`
		Types            []string `json:"types"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// searchNearbyRequest is the Places API searchNearby request body
type searchNearbyRequest struct {
	LanguageCode        string              `json:"languageCode,omitempty"`
	RegionCode          string              `json:"regionCode,omitempty"`
	IncludedTypes       []string            `json:"includedTypes"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center models.PlaceLatLng `json:"center"`
	Radius float64            `json:"radius"`
}

// searchNearbyResponse is the Places API searchNearby response body
type searchNearbyResponse struct {
	Places []models.Place `json:"places"`
}

// NewClient creates a new Google Maps client
func NewClient(opts Options, logger *logrus.Logger) *Client {
	if opts.GeocodingURL == "" {
		opts.GeocodingURL = constants.DefaultGeocodingURL
	}
	if opts.PlacesURL == "" {
		opts.PlacesURL = constants.DefaultPlacesURL
	}
	if opts.PhotoBaseURL == "" {
		opts.PhotoBaseURL = constants.DefaultPhotoURL
	}

	retryWait := constants.DefaultRetryWaitTime * time.Second
	retryMaxWait := constants.DefaultRetryMaxWaitTime * time.Second
	if opts.RetryWait > 0 {
		retryWait = opts.RetryWait
		retryMaxWait = 4 * opts.RetryWait
	}

	httpClient := resty.New().
		SetTimeout(constants.DefaultTimeout * time.Second).
		SetRetryCount(constants.DefaultRetryCount).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryMaxWait).
		AddRetryCondition(shouldRetry)

	if opts.Transport != nil {
		httpClient.SetTransport(opts.Transport)
	}

	return &Client{
		httpClient: httpClient,
		opts:       opts,
		logger:     logger,
	}
}

// shouldRetry retries transport failures, throttling and server errors only
func shouldRetry(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	return resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError
}

// Geocode looks up an address
func (c *Client) Geocode(ctx context.Context, address string) ([]models.GeocodeResult, error) {
	return c.geocode(ctx, "geocode", map[string]string{"address": address})
}

// ReverseGeocode looks up the addresses at a pair of coordinates
func (c *Client) ReverseGeocode(ctx context.Context, latLng models.LatLng) ([]models.GeocodeResult, error) {
	return c.geocode(ctx, "reverse geocode", map[string]string{
		"latlng": fmt.Sprintf("%f,%f", latLng.Latitude, latLng.Longitude),
	})
}

func (c *Client) geocode(ctx context.Context, operation string, params map[string]string) ([]models.GeocodeResult, error) {
	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.opts.APIKey).
		SetQueryParams(params)
	if c.opts.LanguageCode != "" {
		req.SetQueryParam("language", c.opts.LanguageCode)
	}
	if c.opts.RegionCode != "" {
		req.SetQueryParam("region", c.opts.RegionCode)
	}

	resp, err := req.Get(c.opts.GeocodingURL)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", operation, err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.logger.Errorf("Geocoding failed - Status: %d, Response: %s", resp.StatusCode(), string(resp.Body()))
		return nil, &apperrors.ProviderError{Operation: operation, Status: resp.StatusCode(), Message: string(resp.Body())}
	}

	var body geocodeResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", operation, err)
	}

	switch body.Status {
	case "OK", "ZERO_RESULTS", "":
	default:
		return nil, &apperrors.ProviderError{Operation: operation, Status: resp.StatusCode(), Message: strings.TrimSpace(body.Status + " " + body.ErrorMessage)}
	}

	results := make([]models.GeocodeResult, 0, len(body.Results))
	for _, result := range body.Results {
		results = append(results, models.GeocodeResult{
			PlaceID:          result.PlaceID,
			FormattedAddress: result.FormattedAddress,
			Location:         models.LatLng{Latitude: result.Geometry.Location.Lat, Longitude: result.Geometry.Location.Lng},
			Types:            result.Types,
		})
	}

	c.logger.Debugf("%s returned %d results", operation, len(results))
	return results, nil
}

// SearchNearby runs a nearby search restricted to a circle
func (c *Client) SearchNearby(ctx context.Context, req models.NearbySearchRequest) ([]models.Place, error) {
	languageCode := req.LanguageCode
	if languageCode == "" {
		languageCode = c.opts.LanguageCode
	}
	regionCode := req.RegionCode
	if regionCode == "" {
		regionCode = c.opts.RegionCode
	}

	includedTypes := req.IncludedTypes
	if includedTypes == nil {
		includedTypes = []string{}
	}

	requestBody := searchNearbyRequest{
		LanguageCode:  languageCode,
		RegionCode:    regionCode,
		IncludedTypes: includedTypes,
		LocationRestriction: locationRestriction{
			Circle: circle{
				Center: models.PlaceLatLng{Latitude: req.Center.Latitude, Longitude: req.Center.Longitude},
				Radius: float64(req.Radius),
			},
		},
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Goog-Api-Key", c.opts.APIKey).
		SetHeader("X-Goog-FieldMask", "*").
		SetBody(requestBody).
		Post(c.opts.PlacesURL)
	if err != nil {
		return nil, fmt.Errorf("search nearby request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.logger.Errorf("Search nearby failed - Status: %d, Response: %s", resp.StatusCode(), string(resp.Body()))
		return nil, &apperrors.ProviderError{Operation: "search nearby", Status: resp.StatusCode(), Message: string(resp.Body())}
	}

	var body searchNearbyResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse search nearby response: %w", err)
	}

	c.logger.Debugf("Search nearby returned %d places", len(body.Places))
	return body.Places, nil
}

// FetchPhoto downloads a place photo by its resource name
func (c *Client) FetchPhoto(ctx context.Context, name string) ([]byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.opts.APIKey).
		SetQueryParam("maxWidthPx", fmt.Sprint(constants.PhotoMaxWidthPx)).
		Get(fmt.Sprintf("%s/%s/media", strings.TrimRight(c.opts.PhotoBaseURL, "/"), strings.TrimLeft(name, "/")))
	if err != nil {
		return nil, fmt.Errorf("photo request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &apperrors.ProviderError{Operation: "place photo", Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	}
	return resp.Body(), nil
}
