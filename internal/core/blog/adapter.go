package blog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

const (
	// DisplayCount is the maximum number of posts shown
	DisplayCount = 6
	// ExcerptLength is the excerpt budget in characters, excluding the ellipsis
	ExcerptLength = 150
	// WordsPerMinute is the reading speed used for the read time estimate
	WordsPerMinute = 200
)

// Placeholders are used when a post has no embedded image
var Placeholders = [3]string{
	"https://images.unsplash.com/photo-1498050108023-c5249f4df085?w=600&q=80",
	"https://images.unsplash.com/photo-1461749280684-dccba630e2f6?w=600&q=80",
	"https://images.unsplash.com/photo-1555066931-4365d14bab8c?w=600&q=80",
}

var pubDateLayouts = []string{
	"2006-01-02 15:04:05", // rss2json
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
}

var stripTags = newStripTagsPolicy()

func newStripTagsPolicy() *bluemonday.Policy {
	p := bluemonday.StripTagsPolicy()
	// Keep words from adjacent block elements apart ("</h3><p>")
	p.AddSpaceWhenStrippingTag(true)
	return p
}

// adapter converts syndication items into posts.
// pick chooses a placeholder index in [0, n).
type adapter struct {
	pick func(n int) int
}

func (a adapter) adapt(items []feedItem) []Post {
	if len(items) > DisplayCount {
		items = items[:DisplayCount]
	}

	out := make([]Post, 0, len(items))
	for _, item := range items {
		out = append(out, a.toPost(item))
	}
	return out
}

func (a adapter) toPost(item feedItem) Post {
	text := PlainText(item.Description)

	thumbnail := ExtractThumbnail(item.Description)
	if thumbnail == "" {
		thumbnail = Placeholders[a.pick(len(Placeholders))]
	}

	categories := make([]string, 0, len(item.Categories))
	for _, c := range item.Categories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}

	published := parsePubDate(item.PubDate)
	if item.Published != nil {
		published = item.Published.UTC()
	}

	return Post{
		Title:        strings.TrimSpace(html.UnescapeString(item.Title)),
		Link:         item.Link,
		Excerpt:      Truncate(text, ExcerptLength),
		PublishedAt:  published,
		Categories:   categories,
		ThumbnailURL: thumbnail,
		ReadMinutes:  ReadMinutes(text),
	}
}

// PlainText strips markup and entities and collapses whitespace
func PlainText(fragment string) string {
	text := html.UnescapeString(stripTags.Sanitize(fragment))
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens s to at most limit characters, appending "..." when anything was cut
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit]), " ") + "..."
}

// ReadMinutes estimates reading time as ceil(words/WordsPerMinute), never less than one minute
func ReadMinutes(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// ExtractThumbnail returns the src of the first image in fragment.
// Medium's tracking pixel is skipped.
func ExtractThumbnail(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "src" {
					if src := strings.TrimSpace(string(val)); src != "" && !strings.Contains(src, "/_/stat") {
						return src
					}
				}
				if !more {
					break
				}
			}
		}
	}
}

func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
