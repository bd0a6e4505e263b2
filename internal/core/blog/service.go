// Package blog turns a Medium author feed into display records.
package blog

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"Folio/internal/core/feeds"
)

const (
	// PostsKey is the cache key for the post list
	PostsKey = "medium:posts"

	defaultProxyURL = "https://api.rss2json.com/v1/api.json"
	defaultFeedBase = "https://medium.com/feed/@"
)

// Service lists recent posts. It never fails.
type Service interface {
	ListPosts(ctx context.Context) []Post
}

type service struct {
	fetcher  *feeds.Fetcher
	adapter  adapter
	username string
	source   Source
	proxyURL string
	feedBase string
	ttl      time.Duration
}

// ServiceOption configures the service
type ServiceOption func(*service)

// WithSource selects the proxy or direct RSS source
func WithSource(source Source) ServiceOption {
	return func(s *service) {
		s.source = source
	}
}

// WithProxyURL overrides the rss2json endpoint
func WithProxyURL(proxyURL string) ServiceOption {
	return func(s *service) {
		s.proxyURL = proxyURL
	}
}

// WithFeedBase overrides the feed URL prefix the username is appended to
func WithFeedBase(feedBase string) ServiceOption {
	return func(s *service) {
		s.feedBase = feedBase
	}
}

// WithPicker sets the placeholder chooser. pick must return a value in [0, n).
func WithPicker(pick func(n int) int) ServiceOption {
	return func(s *service) {
		s.adapter.pick = pick
	}
}

// WithTTL overrides the freshness window
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *service) {
		s.ttl = ttl
	}
}

// NewService creates a blog service for a Medium username (without the leading @)
func NewService(fetcher *feeds.Fetcher, username string, opts ...ServiceOption) Service {
	s := &service{
		fetcher:  fetcher,
		adapter:  adapter{pick: rand.Intn},
		username: strings.TrimPrefix(username, "@"),
		source:   SourceProxy,
		proxyURL: defaultProxyURL,
		feedBase: defaultFeedBase,
		ttl:      15 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListPosts returns the most recent posts in feed order
func (s *service) ListPosts(ctx context.Context) []Post {
	req := feeds.Request[[]Post]{
		Key:      PostsKey,
		TTL:      s.ttl,
		Fallback: Fallback(),
	}

	switch s.source {
	case SourceRSS:
		req.URL = s.feedURL()
		req.Decode = s.decodeWith(parseRSS)
	default:
		req.URL = s.proxyRequestURL()
		req.Decode = s.decodeWith(parseProxy)
	}

	return feeds.Fetch(ctx, s.fetcher, req)
}

func (s *service) decodeWith(parse func(io.Reader) ([]feedItem, error)) func(io.Reader) ([]Post, error) {
	return func(body io.Reader) ([]Post, error) {
		items, err := parse(body)
		if err != nil {
			return nil, err
		}
		return s.adapter.adapt(items), nil
	}
}

func (s *service) feedURL() string {
	return s.feedBase + s.username
}

func (s *service) proxyRequestURL() string {
	return fmt.Sprintf("%s?rss_url=%s", s.proxyURL, url.QueryEscape(s.feedURL()))
}
