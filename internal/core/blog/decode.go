package blog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mmcdole/gofeed"
)

// ErrProxyStatus is returned when rss2json answers with a non-"ok" status
var ErrProxyStatus = errors.New("rss2json returned an error status")

// parseProxy decodes an rss2json response into feed items
func parseProxy(body io.Reader) ([]feedItem, error) {
	var resp proxyResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode rss2json response: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("%w: status=%q message=%q", ErrProxyStatus, resp.Status, resp.Message)
	}

	items := make([]feedItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		description := it.Description
		if description == "" {
			description = it.Content
		}
		items = append(items, feedItem{
			Title:       it.Title,
			Link:        it.Link,
			Description: description,
			PubDate:     it.PubDate,
			Categories:  it.Categories,
		})
	}
	return items, nil
}

// parseRSS decodes a raw RSS or Atom document into feed items
func parseRSS(body io.Reader) ([]feedItem, error) {
	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]feedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		// Medium puts the full article in content:encoded and leaves description empty
		description := it.Content
		if description == "" {
			description = it.Description
		}
		items = append(items, feedItem{
			Title:       it.Title,
			Link:        it.Link,
			Description: description,
			PubDate:     it.Published,
			Published:   it.PublishedParsed,
			Categories:  it.Categories,
		})
	}
	return items, nil
}
