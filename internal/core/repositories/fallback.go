package repositories

import "time"

// fallbackRepositories are shown when GitHub is unreachable and nothing is cached
var fallbackRepositories = []Repository{
	{
		Name:         "portfolio-website",
		Title:        "Portfolio Website",
		Description:  "Personal portfolio site with live GitHub and blog feeds.",
		Language:     "Go",
		LanguageIcon: "fab fa-golang",
		Stars:        12,
		Forks:        3,
		UpdatedAt:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		SizeKB:       2048,
		CodeURL:      "https://github.com",
	},
	{
		Name:         "weather-app",
		Title:        "Weather App",
		Description:  "Forecast dashboard backed by a public weather API.",
		Language:     "JavaScript",
		LanguageIcon: "fab fa-js",
		Stars:        8,
		Forks:        2,
		UpdatedAt:    time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC),
		SizeKB:       1024,
		CodeURL:      "https://github.com",
	},
	{
		Name:         "task-manager",
		Title:        "Task Manager",
		Description:  "Kanban style task tracker with drag and drop.",
		Language:     "Swift",
		LanguageIcon: "fab fa-swift",
		Stars:        5,
		Forks:        1,
		UpdatedAt:    time.Date(2023, 8, 20, 0, 0, 0, 0, time.UTC),
		SizeKB:       512,
		CodeURL:      "https://github.com",
	},
}

var fallbackProfile = Profile{PublicRepos: 20, Followers: 10}

// Fallback returns a copy of the hardcoded repository list
func Fallback() []Repository {
	out := make([]Repository, len(fallbackRepositories))
	copy(out, fallbackRepositories)
	return out
}

// FallbackProfile returns the hardcoded profile counters
func FallbackProfile() Profile {
	return fallbackProfile
}
