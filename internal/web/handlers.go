package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"Folio/internal/core/contact"
	"Folio/internal/core/page"
)

// maxContactBody bounds the contact form body
const maxContactBody = 16 << 10

const (
	contactSentMessage   = "Thanks! Your message was sent."
	contactFailedMessage = "Sorry, your message could not be sent. Please try again later."
)

// Sections is the subset of the page controller the handlers read from
type Sections interface {
	Markup(name string) (template.HTML, bool)
	Subscribe(fn func(page.Update)) (unsubscribe func())
}

// Site describes the page owner
type Site struct {
	Owner       string
	Title       string
	Description string
	GitHubUser  string
	MediumUser  string
}

// Handlers provides HTTP handlers for the portfolio page.
type Handlers struct {
	templates *Templates
	sections  Sections
	themes    *ThemeStore
	relay     contact.Relay
	logger    *slog.Logger
	now       func() time.Time
	site      Site
}

// NewHandlers creates a new Handlers instance with the provided dependencies.
func NewHandlers(templates *Templates, sections Sections, themes *ThemeStore, relay contact.Relay, site Site, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		templates: templates,
		sections:  sections,
		themes:    themes,
		relay:     relay,
		logger:    logger,
		now:       time.Now,
		site:      site,
	}
}

// PageData holds data for the index template.
type PageData struct {
	Theme       string
	Owner       string
	Title       string
	Description string
	GitHubUser  string
	MediumUser  string
	Projects    template.HTML
	Blog        template.HTML
	Stats       template.HTML
	Flashes     []string
	Year        int
}

// LandingHandler handles GET / requests and renders the full page with the
// current markup of every section.
func (h *Handlers) LandingHandler(w http.ResponseWriter, r *http.Request) {
	// Only handle exact root path - let other routes handle their own paths
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := PageData{
		Theme:       h.themes.Theme(r),
		Flashes:     h.themes.Flashes(w, r),
		Owner:       h.site.Owner,
		Title:       h.site.Title,
		Description: h.site.Description,
		GitHubUser:  h.site.GitHubUser,
		MediumUser:  h.site.MediumUser,
		Projects:    h.markup(SectionProjects),
		Blog:        h.markup(SectionBlog),
		Stats:       h.markup(SectionStats),
		Year:        h.now().Year(),
	}

	if err := h.templates.Render(w, "index.html", data); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handlers) markup(section string) template.HTML {
	m, _ := h.sections.Markup(section)
	return m
}

// PartialHandler returns one section's current markup
// GET /partials/{section}
func (h *Handlers) PartialHandler(w http.ResponseWriter, r *http.Request) {
	markup, ok := h.sections.Markup(chi.URLParam(r, "section"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write([]byte(markup)); err != nil {
		h.logger.Debug("failed to write partial", "error", err)
	}
}

// ThemeHandler stores the visitor's theme and sends them back to the page.
// An explicit theme form value is validated; without one the theme toggles.
// POST /theme
func (h *Handlers) ThemeHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	var err error
	theme := r.FormValue("theme")
	if theme == "" {
		theme, err = h.themes.Toggle(w, r)
	} else {
		err = h.themes.SetTheme(w, r, theme)
	}

	switch {
	case errors.Is(err, ErrInvalidTheme):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("failed to store theme", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ContactHandler relays a contact form submission.
// Browsers posting the form get a flash alert and a redirect back to the page;
// script clients sending Accept: application/json get a JSON result.
// POST /contact
func (h *Handlers) ContactHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)
	if err := r.ParseForm(); err != nil {
		h.contactResult(w, r, http.StatusBadRequest, "", "Your message could not be read.")
		return
	}

	sub := contact.Submission{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Subject: r.FormValue("subject"),
		Message: r.FormValue("message"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	ref, err := h.relay.Send(ctx, sub)
	switch {
	case err == nil:
		h.contactResult(w, r, http.StatusOK, ref, contactSentMessage)
	case contact.IsValidationError(err):
		h.contactResult(w, r, http.StatusBadRequest, "", validationMessage(err))
	default:
		log.Printf("[CONTACT] Submission from %s failed: %v", sub.Email, err)
		h.contactResult(w, r, http.StatusBadGateway, "", contactFailedMessage)
	}
}

func (h *Handlers) contactResult(w http.ResponseWriter, r *http.Request, status int, ref, message string) {
	if wantsJSON(r) {
		body := map[string]string{"message": message}
		if ref != "" {
			body["reference"] = ref
		}
		if status >= 400 {
			body["error"] = http.StatusText(status)
		}
		writeJSON(w, status, body)
		return
	}

	if err := h.themes.AddFlash(w, r, message); err != nil {
		h.logger.Error("failed to store contact alert", "error", err)
	}
	http.Redirect(w, r, "/#contact", http.StatusSeeOther)
}

// validationMessage strips the sentinel prefix from a validation error
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), contact.ErrInvalidSubmission.Error()+": ")
	if msg == "" {
		return contact.ErrInvalidSubmission.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

// HealthHandler reports liveness
// GET /health
func (h *Handlers) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
