// Package thumbnails resizes remote post images to the sizes the page shows,
// keeping recent results in memory.
package thumbnails

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultCacheEntries bounds how many processed thumbnails stay in memory
	DefaultCacheEntries = 128
	// DefaultCacheTTL is how long a processed thumbnail is reused
	DefaultCacheTTL = 24 * time.Hour
)

// Service returns processed thumbnails.
type Service interface {
	// GetThumbnail returns src transformed by the named preset as JPEG bytes.
	GetThumbnail(ctx context.Context, preset, src string) ([]byte, error)
}

type service struct {
	cache     *expirable.LRU[string, []byte]
	fetcher   Fetcher
	processor Processor
	logger    *slog.Logger
}

// ServiceOption configures the thumbnail service
type ServiceOption func(*service)

// WithCache replaces the in-memory cache bounds
func WithCache(entries int, ttl time.Duration) ServiceOption {
	return func(s *service) {
		s.cache = expirable.NewLRU[string, []byte](entries, nil, ttl)
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a thumbnail service
func NewService(fetcher Fetcher, processor Processor, opts ...ServiceOption) Service {
	s := &service{
		cache:     expirable.NewLRU[string, []byte](DefaultCacheEntries, nil, DefaultCacheTTL),
		fetcher:   fetcher,
		processor: processor,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GetThumbnail(ctx context.Context, presetName, src string) ([]byte, error) {
	preset, err := GetPreset(presetName)
	if err != nil {
		return nil, err
	}

	key := presetName + "|" + src
	if data, ok := s.cache.Get(key); ok {
		s.logger.Debug("[THUMBNAILS] cache hit", "preset", presetName, "src", src)
		return data, nil
	}

	raw, err := s.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	processed, err := s.processor.Process(raw, preset)
	if err != nil {
		return nil, fmt.Errorf("thumbnail %s for %s: %w", presetName, src, err)
	}

	s.cache.Add(key, processed)
	s.logger.Debug("[THUMBNAILS] cached processed image",
		"preset", presetName,
		"src", src,
		"size_bytes", len(processed),
	)
	return processed, nil
}
