package repositories

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DisplayCount is the maximum number of repositories shown
	DisplayCount = 6

	defaultLanguage    = "Other"
	defaultIcon        = "fas fa-code"
	defaultDescription = "No description available."
)

var languageIcons = map[string]string{
	"JavaScript": "fab fa-js",
	"TypeScript": "fab fa-js",
	"Python":     "fab fa-python",
	"Java":       "fab fa-java",
	"Swift":      "fab fa-swift",
	"HTML":       "fab fa-html5",
	"CSS":        "fab fa-css3-alt",
	"SCSS":       "fab fa-sass",
	"Go":         "fab fa-golang",
	"PHP":        "fab fa-php",
	"Rust":       "fab fa-rust",
	"Kotlin":     "fab fa-android",
	"Dart":       "fab fa-android",
	"Vue":        "fab fa-vuejs",
	"Ruby":       "fas fa-gem",
	"Shell":      "fas fa-terminal",
	"Dockerfile": "fab fa-docker",
}

// LanguageIcon returns the icon class for a language, or the generic code icon
func LanguageIcon(language string) string {
	if icon, ok := languageIcons[language]; ok {
		return icon
	}
	return defaultIcon
}

// FormatTitle turns a repository name into a display title:
// hyphens and underscores become spaces and every word is capitalised.
func FormatTitle(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// adapt filters and converts provider records.
// Forks and private repositories are dropped, provider order is kept and the
// result is capped at DisplayCount.
func adapt(raw []githubRepo) []Repository {
	out := make([]Repository, 0, DisplayCount)
	for _, r := range raw {
		if r.Fork || r.Private {
			continue
		}
		if len(out) == DisplayCount {
			break
		}
		out = append(out, toRepository(r))
	}
	return out
}

func toRepository(r githubRepo) Repository {
	language := deref(r.Language)
	if language == "" {
		language = defaultLanguage
	}
	description := strings.TrimSpace(deref(r.Description))
	if description == "" {
		description = defaultDescription
	}

	return Repository{
		Name:         r.Name,
		Title:        FormatTitle(r.Name),
		Description:  description,
		Language:     language,
		LanguageIcon: LanguageIcon(language),
		Stars:        r.StargazersCount,
		Forks:        r.ForksCount,
		UpdatedAt:    r.UpdatedAt,
		SizeKB:       r.Size,
		CodeURL:      r.HTMLURL,
		DemoURL:      strings.TrimSpace(deref(r.Homepage)),
	}
}

// decodeRepositories parses a /users/{owner}/repos body into display records
func decodeRepositories(body io.Reader) ([]Repository, error) {
	var raw []githubRepo
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode repository list: %w", err)
	}
	return adapt(raw), nil
}

// decodeProfile parses a /users/{owner} body
func decodeProfile(body io.Reader) (Profile, error) {
	var user githubUser
	if err := json.NewDecoder(body).Decode(&user); err != nil {
		return Profile{}, fmt.Errorf("failed to decode user profile: %w", err)
	}
	return Profile(user), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
