package repositories

import "time"

// Repository is a public repository prepared for display
type Repository struct {
	UpdatedAt    time.Time `json:"updatedAt"`
	Name         string    `json:"name"`         // Raw repository name
	Title        string    `json:"title"`        // Human readable name ("foo-bar" -> "Foo Bar")
	Description  string    `json:"description"`
	Language     string    `json:"language"`     // Primary language, "Other" when unknown
	LanguageIcon string    `json:"languageIcon"` // Icon class for the language
	CodeURL      string    `json:"codeUrl"`
	DemoURL      string    `json:"demoUrl,omitempty"` // Homepage, if the repository has one
	Stars        int       `json:"stars"`
	Forks        int       `json:"forks"`
	SizeKB       int       `json:"sizeKb"`
}

// Profile holds the public counters shown next to the repository list
type Profile struct {
	PublicRepos int `json:"publicRepos"`
	Followers   int `json:"followers"`
}

// githubRepo is one element of GET /users/{owner}/repos
type githubRepo struct {
	UpdatedAt       time.Time `json:"updated_at"`
	Description     *string   `json:"description"`
	Language        *string   `json:"language"`
	Homepage        *string   `json:"homepage"`
	Name            string    `json:"name"`
	HTMLURL         string    `json:"html_url"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	Size            int       `json:"size"`
	Fork            bool      `json:"fork"`
	Private         bool      `json:"private"`
}

// githubUser is the subset of GET /users/{owner} used for the profile counters
type githubUser struct {
	PublicRepos int `json:"public_repos"`
	Followers   int `json:"followers"`
}
