// Package feeds wraps outbound provider calls with a freshness cache and a
// fallback chain, so callers always receive something they can render.
package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"Folio/internal/core/cache"
)

// maxBodyBytes caps how much of a provider response is read
const maxBodyBytes = 5 * 1024 * 1024

// Source is where a Fetch result came from
type Source string

const (
	SourceCache    Source = "cache"    // fresh cache entry
	SourceNetwork  Source = "network"  // successful provider call
	SourceStale    Source = "stale"    // provider failed, stale cache entry served
	SourceSnapshot Source = "snapshot" // provider failed, persisted snapshot served
	SourceFallback Source = "fallback" // provider failed, hardcoded data served
)

// Request describes one provider call and how to turn its body into display records.
type Request[T any] struct {
	// Decode parses the response body and adapts it into T
	Decode   func(io.Reader) (T, error)
	Header   http.Header
	Fallback T
	Key      string
	URL      string
	TTL      time.Duration
}

// Fetcher performs provider calls on behalf of every feed.
// It owns the cache shared by all feed keys.
type Fetcher struct {
	client    *http.Client
	cache     *cache.TimedCache[any]
	snapshots SnapshotRepository
	logger    *slog.Logger
	userAgent string
}

// FetcherOption configures a Fetcher
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the client used for provider calls
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent sets the User-Agent header sent to providers
func WithUserAgent(userAgent string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = userAgent
	}
}

// WithSnapshots enables persisted snapshots as a fallback tier
func WithSnapshots(repo SnapshotRepository) FetcherOption {
	return func(f *Fetcher) {
		f.snapshots = repo
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a Fetcher backed by c.
func NewFetcher(c *cache.TimedCache[any], opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    http.DefaultClient,
		cache:     c,
		logger:    slog.Default(),
		userAgent: "FolioBot/1.0",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Cache returns the cache shared by all feeds
func (f *Fetcher) Cache() *cache.TimedCache[any] {
	return f.cache
}

// Fetch returns fresh, stale or fallback data for req. It never fails.
func Fetch[T any](ctx context.Context, f *Fetcher, req Request[T]) T {
	value, _ := FetchWithSource(ctx, f, req)
	return value
}

// FetchWithSource is Fetch that also reports which tier answered.
func FetchWithSource[T any](ctx context.Context, f *Fetcher, req Request[T]) (T, Source) {
	if f.cache.IsFresh(req.Key, req.TTL) {
		if value, ok := cached[T](f, req.Key); ok {
			f.logger.Debug("feed cache hit", "feed", req.Key)
			return value, SourceCache
		}
	}

	value, err := load(ctx, f, req)
	if err == nil {
		f.cache.Set(req.Key, value)
		f.persist(ctx, req.Key, value)
		f.logger.Debug("feed refreshed from provider", "feed", req.Key, "url", req.URL)
		return value, SourceNetwork
	}

	if value, ok := cached[T](f, req.Key); ok {
		f.logger.Warn("feed fetch failed, serving stale cache",
			"feed", req.Key, "url", req.URL, "error", err)
		return value, SourceStale
	}

	if value, ok := restore[T](ctx, f, req.Key); ok {
		f.logger.Warn("feed fetch failed, serving persisted snapshot",
			"feed", req.Key, "url", req.URL, "error", err)
		return value, SourceSnapshot
	}

	f.logger.Warn("feed fetch failed, serving fallback",
		"feed", req.Key, "url", req.URL, "error", err)
	return req.Fallback, SourceFallback
}

// load performs the single provider attempt for req
func load[T any](ctx context.Context, f *Fetcher, req Request[T]) (T, error) {
	var zero T

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return zero, &FetchError{URL: req.URL, Err: err}
	}
	for name, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	httpReq.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return zero, &FetchError{URL: req.URL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, &FetchError{URL: req.URL, StatusCode: resp.StatusCode}
	}

	value, err := req.Decode(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return zero, &ParseError{URL: req.URL, Err: err}
	}
	return value, nil
}

// cached returns whatever entry is stored for key if it holds a T
func cached[T any](f *Fetcher, key string) (T, bool) {
	entry, ok := f.cache.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	value, ok := entry.Value.(T)
	return value, ok
}

// persist writes value as the key's snapshot. Best effort.
func (f *Fetcher) persist(ctx context.Context, key string, value any) {
	if f.snapshots == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		f.logger.Warn("failed to encode feed snapshot", "feed", key, "error", err)
		return
	}
	if err := f.snapshots.Set(ctx, key, payload, time.Now().UTC()); err != nil {
		f.logger.Warn("failed to store feed snapshot", "feed", key, "error", err)
	}
}

// restore loads the key's snapshot and seeds the cache with its original timestamp,
// so a later call still tries the provider first.
func restore[T any](ctx context.Context, f *Fetcher, key string) (T, bool) {
	var value T
	if f.snapshots == nil {
		return value, false
	}

	snap, err := f.snapshots.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrSnapshotNotFound) {
			f.logger.Warn("failed to load feed snapshot", "feed", key, "error", err)
		}
		return value, false
	}

	if err := json.Unmarshal(snap.Payload, &value); err != nil {
		f.logger.Warn("failed to decode feed snapshot", "feed", key, "error", fmt.Errorf("unmarshal: %w", err))
		return value, false
	}

	f.cache.SetAt(key, value, snap.StoredAt)
	return value, true
}
