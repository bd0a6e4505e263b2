package blog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Folio/internal/core/cache"
	"Folio/internal/core/feeds"
)

const proxyBody = `{
  "status": "ok",
  "feed": {"url": "https://medium.com/feed/@writer"},
  "items": [
    {
      "title": "First Post",
      "pubDate": "2024-02-01 08:00:00",
      "link": "https://medium.com/@writer/first",
      "description": "<figure><img src=\"https://cdn-images-1.medium.com/first.png\"></figure><p>Hello world</p>",
      "categories": ["go", "web"]
    },
    {
      "title": "Second Post",
      "pubDate": "2024-01-01 08:00:00",
      "link": "https://medium.com/@writer/second",
      "description": "<p>No image here</p>",
      "categories": []
    }
  ]
}`

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Stories by Writer on Medium</title>
    <link>https://medium.com/@writer</link>
    <item>
      <title><![CDATA[Direct Post]]></title>
      <link>https://medium.com/@writer/direct</link>
      <category><![CDATA[golang]]></category>
      <pubDate>Mon, 15 Jan 2024 10:30:00 GMT</pubDate>
      <content:encoded><![CDATA[<p>Parsed straight from RSS</p><img src="https://cdn/direct.png">]]></content:encoded>
    </item>
  </channel>
</rss>`

func TestService_ListPostsViaProxy(t *testing.T) {
	var mu sync.Mutex
	var gotRSSURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotRSSURL = r.URL.Query().Get("rss_url")
		mu.Unlock()
		_, _ = io.WriteString(w, proxyBody)
	}))
	defer server.Close()

	svc := NewService(feeds.NewFetcher(cache.New[any]()), "@writer",
		WithProxyURL(server.URL+"/v1/api.json"),
		WithPicker(func(n int) int { return n - 1 }))

	posts := svc.ListPosts(context.Background())

	require.Len(t, posts, 2)
	assert.Equal(t, "First Post", posts[0].Title)
	assert.Equal(t, "https://cdn-images-1.medium.com/first.png", posts[0].ThumbnailURL)
	assert.Equal(t, []string{"go", "web"}, posts[0].Categories)
	assert.Equal(t, "Hello world", posts[0].Excerpt)
	assert.Equal(t, Placeholders[2], posts[1].ThumbnailURL)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "https://medium.com/feed/@writer", gotRSSURL)
}

func TestService_ProxyErrorStatusFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"error","message":"Cannot download this RSS feed"}`)
	}))
	defer server.Close()

	svc := NewService(feeds.NewFetcher(cache.New[any]()), "writer", WithProxyURL(server.URL))

	assert.Equal(t, Fallback(), svc.ListPosts(context.Background()))
}

func TestService_ServerErrorWithEmptyCacheReturnsThreeFallbackPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewService(feeds.NewFetcher(cache.New[any]()), "writer", WithProxyURL(server.URL))

	posts := svc.ListPosts(context.Background())
	require.Len(t, posts, 3)
	assert.Equal(t, Fallback(), posts)
}

func TestService_ListPostsViaRSS(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/@writer") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = io.WriteString(w, rssBody)
	}))
	defer server.Close()

	svc := NewService(feeds.NewFetcher(cache.New[any]()), "writer",
		WithSource(SourceRSS),
		WithFeedBase(server.URL+"/feed/@"))

	posts := svc.ListPosts(context.Background())

	require.Len(t, posts, 1)
	assert.Equal(t, "Direct Post", posts[0].Title)
	assert.Equal(t, "https://cdn/direct.png", posts[0].ThumbnailURL)
	assert.Equal(t, "Parsed straight from RSS", posts[0].Excerpt)
	assert.Equal(t, []string{"golang"}, posts[0].Categories)
	assert.Equal(t, 2024, posts[0].PublishedAt.Year())
}

func TestParseProxy_Malformed(t *testing.T) {
	_, err := parseProxy(strings.NewReader(`<html>`))
	assert.Error(t, err)

	_, err = parseProxy(strings.NewReader(`{"status":"error"}`))
	assert.ErrorIs(t, err, ErrProxyStatus)
}

func TestParseRSS_Malformed(t *testing.T) {
	_, err := parseRSS(strings.NewReader(`not a feed`))
	assert.Error(t, err)
}

func TestFallback_ExactlyThreePosts(t *testing.T) {
	posts := Fallback()
	require.Len(t, posts, 3)
	for _, p := range posts {
		assert.GreaterOrEqual(t, p.ReadMinutes, 1)
		assert.NotEmpty(t, p.ThumbnailURL)
	}

	posts[0].Categories[0] = "mutated"
	assert.NotEqual(t, "mutated", Fallback()[0].Categories[0])
}
