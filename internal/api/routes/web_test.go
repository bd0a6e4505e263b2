package routes

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Folio/internal/api/middleware"
	"Folio/internal/core/contact"
	"Folio/internal/core/page"
	"Folio/internal/core/thumbnails"
	"Folio/internal/web"
)

type okRelay struct{}

func (okRelay) Send(context.Context, contact.Submission) (string, error) {
	return "ref", nil
}

func newTestRouter(t *testing.T, limit int) http.Handler {
	t.Helper()
	controller, err := page.New([]page.Pipeline{{
		Name: web.SectionProjects,
		Load: func(context.Context) template.HTML { return "<p>ok</p>" },
	}})
	require.NoError(t, err)
	controller.Load(context.Background())

	templates, err := web.NewTemplates()
	require.NoError(t, err)
	themes, err := web.NewThemeStore("0123456789abcdef0123456789abcdef", false)
	require.NoError(t, err)

	limiter := middleware.NewRateLimiter(limit, time.Minute)
	t.Cleanup(limiter.Stop)

	thumbs := thumbnails.NewService(thumbnails.NewHTTPFetcher(nil, nil), thumbnails.NewProcessor())

	h := web.NewHandlers(templates, controller, themes, okRelay{}, web.Site{Owner: "Ada"}, nil)
	r := chi.NewRouter()
	RegisterWebRoutes(r, h, controller, web.NewThumbnailHandler(thumbs, nil), limiter, []string{"https://ada.dev"})
	return r
}

func contactRequest() *http.Request {
	form := url.Values{"name": {"Grace"}, "email": {"grace@example.com"}, "message": {"hi"}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.RemoteAddr = "203.0.113.1:4000"
	return req
}

func TestRegisterWebRoutes_Partials(t *testing.T) {
	router := newTestRouter(t, 5)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partials/projects", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<p>ok</p>", w.Body.String())
}

func TestRegisterWebRoutes_ContactRateLimited(t *testing.T) {
	router := newTestRouter(t, 2)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, contactRequest())
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, contactRequest())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRegisterWebRoutes_ContactCORS(t *testing.T) {
	router := newTestRouter(t, 5)

	preflight := httptest.NewRequest(http.MethodOptions, "/contact", nil)
	preflight.Header.Set("Origin", "https://ada.dev")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, preflight)
	assert.Equal(t, "https://ada.dev", w.Header().Get("Access-Control-Allow-Origin"))

	req := contactRequest()
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRegisterWebRoutes_ThumbnailHostCheck(t *testing.T) {
	router := newTestRouter(t, 5)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/thumbnails/card?src="+url.QueryEscape("https://evil.example/x.png"), nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://ada.dev"})

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{name: "no origin", origin: "", want: true},
		{name: "same host", origin: "http://example.com", want: true},
		{name: "allowed", origin: "https://ada.dev", want: true},
		{name: "foreign", origin: "https://evil.example", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/live", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, check(req))
		})
	}
}
