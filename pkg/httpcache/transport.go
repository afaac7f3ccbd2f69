package httpcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	fieldStatusCode = "StatusCode"
	fieldHeaders    = "Headers"
	fieldContent    = "Content"

	// HeaderCache is set on responses served from the cache
	HeaderCache = "X-Cache"
)

// Backend is the hash storage the cache writes responses to
type Backend interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSetTTL(ctx context.Context, key string, values map[string]string, ttl time.Duration) error
}

// Transport is a read-through, write-through response cache.
// Requests are matched on method, URL, headers and body; only 2xx responses are stored.
type Transport struct {
	base      http.RoundTripper
	backend   Backend
	ttl       time.Duration
	keyPrefix string
	logger    *logrus.Logger
}

// NewTransport wraps base with a cache kept in backend
func NewTransport(base http.RoundTripper, backend Backend, keyPrefix string, ttl time.Duration, logger *logrus.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		base:      base,
		backend:   backend,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

// RoundTrip serves the request from the cache or forwards it
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := readBody(req)
	if err != nil {
		return nil, err
	}
	outgoing := req.Clone(req.Context())
	if body != nil {
		outgoing.Body = io.NopCloser(bytes.NewReader(body))
		outgoing.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	key := t.keyPrefix + Fingerprint(req, body)

	if cached, ok := t.lookup(req.Context(), key, outgoing); ok {
		t.logger.Debugf("Serving %s %s from cache", req.Method, req.URL.Redacted())
		return cached, nil
	}

	resp, err := t.base.RoundTrip(outgoing)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, nil
	}

	content, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(content))

	t.store(req.Context(), key, resp, content)
	return resp, nil
}

// Fingerprint returns the cache key of a request with the given body
func Fingerprint(req *http.Request, body []byte) string {
	var b strings.Builder
	b.WriteString(req.Method)
	b.WriteByte('\n')
	b.WriteString(req.URL.String())
	b.WriteByte('\n')

	names := make([]string, 0, len(req.Header))
	for name := range req.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.Join(req.Header[name], ","))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.Write(body)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func (t *Transport) lookup(ctx context.Context, key string, req *http.Request) (*http.Response, bool) {
	fields, err := t.backend.HGetAll(ctx, key)
	if err != nil {
		t.logger.Warnf("Response cache read failed: %v", err)
		return nil, false
	}
	statusText, ok := fields[fieldStatusCode]
	if !ok {
		return nil, false
	}
	status, err := strconv.Atoi(statusText)
	if err != nil {
		t.logger.Warnf("Ignoring cached response with status %q", statusText)
		return nil, false
	}

	header := make(http.Header)
	if raw := fields[fieldHeaders]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &header); err != nil {
			t.logger.Warnf("Ignoring unreadable cached headers: %v", err)
			header = make(http.Header)
		}
	}
	header.Set(HeaderCache, "HIT")

	content := fields[fieldContent]
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(content)),
		ContentLength: int64(len(content)),
		Request:       req,
	}, true
}

func (t *Transport) store(ctx context.Context, key string, resp *http.Response, content []byte) {
	header, err := json.Marshal(resp.Header)
	if err != nil {
		t.logger.Warnf("Failed to encode response headers: %v", err)
		return
	}
	err = t.backend.HSetTTL(ctx, key, map[string]string{
		fieldStatusCode: strconv.Itoa(resp.StatusCode),
		fieldHeaders:    string(header),
		fieldContent:    string(content),
	}, t.ttl)
	if err != nil {
		t.logger.Warnf("Response cache write failed: %v", err)
	}
}

func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return body, nil
}
