package thumbnails

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// DefaultMaxSourceSize is the largest source image the fetcher downloads
const DefaultMaxSourceSize = 10 << 20

// DefaultAllowedHosts are the image hosts post thumbnails come from
var DefaultAllowedHosts = []string{
	"cdn-images-1.medium.com",
	"miro.medium.com",
	"images.unsplash.com",
}

// Fetcher downloads source images.
type Fetcher interface {
	// Fetch returns the raw bytes of the image at src.
	Fetch(ctx context.Context, src string) ([]byte, error)
}

// HTTPFetcher downloads images over HTTPS from an allowlist of hosts.
type HTTPFetcher struct {
	client       *http.Client
	allowedHosts []string
	maxSizeBytes int64
}

// NewHTTPFetcher creates a fetcher. nil allowedHosts uses DefaultAllowedHosts.
func NewHTTPFetcher(client *http.Client, allowedHosts []string) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if allowedHosts == nil {
		allowedHosts = DefaultAllowedHosts
	}
	return &HTTPFetcher{
		client:       client,
		allowedHosts: allowedHosts,
		maxSizeBytes: DefaultMaxSourceSize,
	}
}

// ValidateSource checks that src is an https URL on an allowed host
func (f *HTTPFetcher) ValidateSource(src string) error {
	u, err := url.Parse(src)
	if err != nil || u.Scheme != "https" || u.User != nil {
		return fmt.Errorf("%w: %q", ErrHostNotAllowed, src)
	}
	if !slices.Contains(f.allowedHosts, strings.ToLower(u.Hostname())) {
		return fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Hostname())
	}
	return nil
}

// Fetch validates src and downloads it.
// Returns ErrHostNotAllowed, ErrImageTooLarge or ErrFetchFailed.
func (f *HTTPFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if err := f.ValidateSource(src); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", "FolioBot/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrFetchFailed, resp.StatusCode)
	}
	if resp.ContentLength > f.maxSizeBytes {
		return nil, fmt.Errorf("%w: content length %d exceeds maximum %d bytes",
			ErrImageTooLarge, resp.ContentLength, f.maxSizeBytes)
	}

	// Read one byte past the limit to detect oversized bodies without a Content-Length
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrFetchFailed, err)
	}
	if int64(len(data)) > f.maxSizeBytes {
		return nil, fmt.Errorf("%w: response body exceeds maximum %d bytes", ErrImageTooLarge, f.maxSizeBytes)
	}
	return data, nil
}
