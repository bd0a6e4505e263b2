package web

import (
	"html/template"
	"log/slog"

	"Folio/internal/core/blog"
	"Folio/internal/core/repositories"
)

// Section names shared by the page, the partial endpoint and the event stream
const (
	SectionProjects = "projects"
	SectionBlog     = "blog"
	SectionStats    = "stats"
)

// skeletonCards is how many placeholder cards a loading section shows
const skeletonCards = 3

// Renderer maps display records to markup fragments.
// Output depends only on its input, so rendering the same records twice is byte-identical.
type Renderer struct {
	templates *Templates
	logger    *slog.Logger
}

// NewRenderer creates a renderer over the parsed templates
func NewRenderer(templates *Templates, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{templates: templates, logger: logger}
}

// Repositories renders the project cards
func (r *Renderer) Repositories(repos []repositories.Repository) template.HTML {
	return r.fragment("repositories.html", repos)
}

// Posts renders the blog cards
func (r *Renderer) Posts(posts []blog.Post) template.HTML {
	return r.fragment("posts.html", posts)
}

// Profile renders the GitHub counters
func (r *Renderer) Profile(p repositories.Profile) template.HTML {
	return r.fragment("profile.html", p)
}

type skeletonData struct {
	Section string
	Cards   []struct{}
}

// Skeleton renders the loading placeholder shown while a section refreshes
func (r *Renderer) Skeleton(section string) template.HTML {
	return r.fragment("skeleton.html", skeletonData{
		Section: section,
		Cards:   make([]struct{}, skeletonCards),
	})
}

// fragment logs template failures and renders nothing, leaving the page intact
func (r *Renderer) fragment(name string, data any) template.HTML {
	markup, err := r.templates.Fragment(name, data)
	if err != nil {
		r.logger.Error("failed to render fragment", "template", name, "error", err)
		return ""
	}
	return markup
}
