package blog

import "time"

// Post is a blog post prepared for display
type Post struct {
	PublishedAt  time.Time `json:"publishedAt"`
	Title        string    `json:"title"`
	Link         string    `json:"link"`
	Excerpt      string    `json:"excerpt"` // Plain text, truncated
	ThumbnailURL string    `json:"thumbnailUrl"`
	Categories   []string  `json:"categories"`
	ReadMinutes  int       `json:"readMinutes"`
}

// Source selects how the Medium feed is retrieved
type Source string

const (
	// SourceProxy reads the feed through the rss2json proxy
	SourceProxy Source = "proxy"
	// SourceRSS parses the Medium RSS feed directly
	SourceRSS Source = "rss"
)

// feedItem is a provider-neutral syndication item
type feedItem struct {
	Title       string
	Link        string
	Description string
	PubDate     string
	Published   *time.Time
	Categories  []string
}

// proxyResponse is the rss2json /v1/api.json body
type proxyResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Items   []proxyItem `json:"items"`
}

type proxyItem struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	PubDate     string   `json:"pubDate"`
	Categories  []string `json:"categories"`
}
