package googlemaps

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "goaround-bot/internal/errors"
	"goaround-bot/internal/models"
)

func newTestClient(server *httptest.Server) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(Options{
		APIKey:       "test-key",
		GeocodingURL: server.URL + "/geocode/json",
		PlacesURL:    server.URL + "/v1/places:searchNearby",
		PhotoBaseURL: server.URL + "/v1",
		LanguageCode: "uk",
		RegionCode:   "UA",
		RetryWait:    time.Millisecond,
	}, logger)
}

func TestGeocodeParsesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "test-key" || q.Get("address") != "Kyiv" || q.Get("language") != "uk" || q.Get("region") != "UA" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"status":"OK","results":[
			{"formatted_address":"Kyiv, Ukraine","place_id":"abc","geometry":{"location":{"lat":50.45,"lng":30.52}}},
			{"formatted_address":"Kyiv Oblast, Ukraine","place_id":"def","geometry":{"location":{"lat":50.0,"lng":30.0}}}
		]}`))
	}))
	defer server.Close()

	results, err := newTestClient(server).Geocode(context.Background(), "Kyiv")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].FormattedAddress != "Kyiv, Ukraine" || results[0].Location.Latitude != 50.45 {
		t.Fatalf("unexpected result %+v", results[0])
	}
}

func TestReverseGeocodeSendsLatLng(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("latlng"); got != "52.000000,13.000000" {
			t.Errorf("latlng = %s", got)
		}
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer server.Close()

	results, err := newTestClient(server).ReverseGeocode(context.Background(), models.LatLng{Latitude: 52, Longitude: 13})
	if err != nil {
		t.Fatalf("reverse geocode: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestGeocodeDeniedIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key","results":[]}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server).Geocode(context.Background(), "Kyiv"); !apperrors.IsProviderError(err) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestSearchNearbyRequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get("X-Goog-Api-Key") != "test-key" || r.Header.Get("X-Goog-FieldMask") != "*" {
			t.Errorf("missing auth headers: %v", r.Header)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		circle := body["locationRestriction"].(map[string]interface{})["circle"].(map[string]interface{})
		if circle["radius"].(float64) != 1000 {
			t.Errorf("radius = %v", circle["radius"])
		}
		if types := body["includedTypes"].([]interface{}); len(types) != 2 {
			t.Errorf("includedTypes = %v", types)
		}
		w.Write([]byte(`{"places":[
			{"id":"p1","name":"places/p1","displayName":{"text":"Cafe","languageCode":"uk"},"rating":4.6,
			 "googleMapsUri":"https://maps.google.com/?cid=1","googleMapsLinks":{"reviewsUri":"https://maps.google.com/r1"},
			 "photos":[{"name":"places/p1/photos/x"}]},
			{"id":"p2","name":"places/p2"}
		]}`))
	}))
	defer server.Close()

	places, err := newTestClient(server).SearchNearby(context.Background(), models.NearbySearchRequest{
		Center:        models.LatLng{Latitude: 52, Longitude: 13},
		Radius:        1000,
		IncludedTypes: []string{"cafe", "bar"},
	})
	if err != nil {
		t.Fatalf("search nearby: %v", err)
	}
	if len(places) != 2 || places[0].Title() != "Cafe" || places[0].ReviewsURI() != "https://maps.google.com/r1" {
		t.Fatalf("unexpected places %+v", places)
	}
	if places[1].Title() != "places/p2" {
		t.Fatalf("title fallback = %s", places[1].Title())
	}
}

func TestSearchNearbyRetriesServerErrorsOnly(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"places":[]}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server).SearchNearby(context.Background(), models.NearbySearchRequest{Radius: 100}); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Fatalf("calls = %d", n)
	}

	var badCalls int32
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&badCalls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer bad.Close()

	_, err := newTestClient(bad).SearchNearby(context.Background(), models.NearbySearchRequest{Radius: 100})
	if !apperrors.IsProviderError(err) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if n := atomic.LoadInt32(&badCalls); n != 1 {
		t.Fatalf("4xx must not be retried, calls = %d", n)
	}
}

func TestFetchPhoto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/places/p1/photos/x/media" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	data, err := newTestClient(server).FetchPhoto(context.Background(), "places/p1/photos/x")
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("photo = %q err=%v", data, err)
	}
}
