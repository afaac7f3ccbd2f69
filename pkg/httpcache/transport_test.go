package httpcache

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"goaround-bot/internal/store"
)

func newCachedClient(t *testing.T) *http.Client {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	transport := NewTransport(nil, store.NewMemoryStore(logger), "httpcache:", time.Hour, logger)
	return &http.Client{Transport: transport}
}

func TestCacheHitAvoidsNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	client := newCachedClient(t)
	for i := 0; i < 3; i++ {
		resp, err := client.Get(server.URL + "/geocode/json?address=Kyiv")
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if string(body) != `{"status":"OK"}` {
			t.Fatalf("body %d = %s", i, body)
		}
		if i > 0 && resp.Header.Get(HeaderCache) != "HIT" {
			t.Fatalf("response %d should come from cache", i)
		}
		if resp.Header.Get("Content-Type") != "application/json" {
			t.Fatalf("headers not preserved: %v", resp.Header)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("server hit %d times, expected 1", n)
	}
}

func TestCacheKeyIncludesBody(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	}))
	defer server.Close()

	client := newCachedClient(t)
	for _, payload := range []string{`{"radius":500}`, `{"radius":1000}`, `{"radius":500}`} {
		resp, err := client.Post(server.URL, "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if string(body) != payload {
			t.Fatalf("echo = %s, want %s", body, payload)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Fatalf("server hit %d times, expected 2", n)
	}
}

func TestErrorResponsesAreNotCached(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newCachedClient(t)
	for i := 0; i < 2; i++ {
		resp, err := client.Get(server.URL)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("status = %d", resp.StatusCode)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Fatalf("server hit %d times, expected 2", n)
	}
}

func TestFingerprintIgnoresHeaderOrder(t *testing.T) {
	a, _ := http.NewRequest(http.MethodGet, "https://example.com/x", nil)
	a.Header.Set("X-One", "1")
	a.Header.Set("X-Two", "2")
	b, _ := http.NewRequest(http.MethodGet, "https://example.com/x", nil)
	b.Header.Set("X-Two", "2")
	b.Header.Set("X-One", "1")
	if Fingerprint(a, nil) != Fingerprint(b, nil) {
		t.Fatal("fingerprints should match")
	}
	b.Header.Set("X-Two", "3")
	if Fingerprint(a, nil) == Fingerprint(b, nil) {
		t.Fatal("fingerprints should differ on header values")
	}
}
