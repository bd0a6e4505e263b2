// Package repositories turns a GitHub account's public repositories and
// profile counters into display records.
package repositories

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Folio/internal/core/feeds"
)

const (
	// RepositoriesKey is the cache key for the repository list
	RepositoriesKey = "github:repos"
	// ProfileKey is the cache key for the profile counters
	ProfileKey = "github:profile"

	defaultBaseURL = "https://api.github.com"
	// perPage is larger than DisplayCount so filtering forks still fills the grid
	perPage = 20
)

// Service lists repositories and profile counters. Neither call fails.
type Service interface {
	ListRepositories(ctx context.Context) []Repository
	GetProfile(ctx context.Context) Profile
}

type service struct {
	fetcher    *feeds.Fetcher
	owner      string
	baseURL    string
	token      string
	reposTTL   time.Duration
	profileTTL time.Duration
}

// ServiceOption configures the service
type ServiceOption func(*service)

// WithBaseURL points the service at a different API host (tests, GitHub Enterprise)
func WithBaseURL(baseURL string) ServiceOption {
	return func(s *service) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithToken sends an API token to lift the anonymous rate limit
func WithToken(token string) ServiceOption {
	return func(s *service) {
		s.token = token
	}
}

// WithTTL overrides the freshness windows
func WithTTL(repos, profile time.Duration) ServiceOption {
	return func(s *service) {
		s.reposTTL = repos
		s.profileTTL = profile
	}
}

// NewService creates a repository service for owner
func NewService(fetcher *feeds.Fetcher, owner string, opts ...ServiceOption) Service {
	s := &service{
		fetcher:    fetcher,
		owner:      owner,
		baseURL:    defaultBaseURL,
		reposTTL:   10 * time.Minute,
		profileTTL: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListRepositories returns the owner's most recently updated public, non-fork repositories
func (s *service) ListRepositories(ctx context.Context) []Repository {
	return feeds.Fetch(ctx, s.fetcher, feeds.Request[[]Repository]{
		Key:      RepositoriesKey,
		URL:      s.reposURL(),
		TTL:      s.reposTTL,
		Header:   s.header(),
		Decode:   decodeRepositories,
		Fallback: Fallback(),
	})
}

// GetProfile returns the owner's public repository and follower counts
func (s *service) GetProfile(ctx context.Context) Profile {
	return feeds.Fetch(ctx, s.fetcher, feeds.Request[Profile]{
		Key:      ProfileKey,
		URL:      s.profileURL(),
		TTL:      s.profileTTL,
		Header:   s.header(),
		Decode:   decodeProfile,
		Fallback: FallbackProfile(),
	})
}

func (s *service) reposURL() string {
	q := url.Values{}
	q.Set("sort", "updated")
	q.Set("per_page", fmt.Sprintf("%d", perPage))
	return fmt.Sprintf("%s/users/%s/repos?%s", s.baseURL, url.PathEscape(s.owner), q.Encode())
}

func (s *service) profileURL() string {
	return fmt.Sprintf("%s/users/%s", s.baseURL, url.PathEscape(s.owner))
}

func (s *service) header() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/vnd.github+json")
	if s.token != "" {
		h.Set("Authorization", "Bearer "+s.token)
	}
	return h
}
