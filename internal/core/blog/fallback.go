package blog

import "time"

// fallbackPosts are shown when the feed is unreachable and nothing is cached
var fallbackPosts = []Post{
	{
		Title:        "Building a Portfolio That Updates Itself",
		Link:         "https://medium.com",
		Excerpt:      "How the repository and blog sections of this site stay current without a redeploy...",
		PublishedAt:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Categories:   []string{"web-development", "go"},
		ThumbnailURL: Placeholders[0],
		ReadMinutes:  5,
	},
	{
		Title:        "Caching Third-Party APIs Without Losing Your Mind",
		Link:         "https://medium.com",
		Excerpt:      "Freshness windows, stale reads and hardcoded fallbacks for small sites that depend on public APIs...",
		PublishedAt:  time.Date(2023, 11, 22, 0, 0, 0, 0, time.UTC),
		Categories:   []string{"caching", "api"},
		ThumbnailURL: Placeholders[1],
		ReadMinutes:  7,
	},
	{
		Title:        "Notes on Shipping Side Projects",
		Link:         "https://medium.com",
		Excerpt:      "What finishing a handful of small projects taught me about scope and motivation...",
		PublishedAt:  time.Date(2023, 9, 5, 0, 0, 0, 0, time.UTC),
		Categories:   []string{"career"},
		ThumbnailURL: Placeholders[2],
		ReadMinutes:  4,
	},
}

// Fallback returns a copy of the hardcoded post list
func Fallback() []Post {
	out := make([]Post, len(fallbackPosts))
	for i, p := range fallbackPosts {
		p.Categories = append([]string(nil), p.Categories...)
		out[i] = p
	}
	return out
}
