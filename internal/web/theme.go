package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	// MinSessionSecretLength is the shortest accepted session signing key
	MinSessionSecretLength = 32

	sessionName = "folio_prefs"
	themeKey    = "theme"
)

// ErrInvalidTheme is returned for any theme other than light or dark
var ErrInvalidTheme = errors.New("theme must be light or dark")

// ThemeStore persists each visitor's theme preference and one-shot alerts in a
// signed cookie session.
type ThemeStore struct {
	store *sessions.CookieStore
}

// NewThemeStore creates a store signing cookies with secret
func NewThemeStore(secret string, secure bool) (*ThemeStore, error) {
	if len(secret) < MinSessionSecretLength {
		return nil, fmt.Errorf("SESSION_SECRET must be at least %d bytes", MinSessionSecretLength)
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &ThemeStore{store: store}, nil
}

// session returns the visitor's session. A cookie that fails verification
// yields a fresh session rather than an error.
func (s *ThemeStore) session(r *http.Request) *sessions.Session {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		sess, _ = s.store.New(r, sessionName)
	}
	return sess
}

// Theme returns the visitor's theme, defaulting to light
func (s *ThemeStore) Theme(r *http.Request) string {
	if theme, ok := s.session(r).Values[themeKey].(string); ok && validTheme(theme) {
		return theme
	}
	return ThemeLight
}

// SetTheme stores theme for the visitor
func (s *ThemeStore) SetTheme(w http.ResponseWriter, r *http.Request, theme string) error {
	if !validTheme(theme) {
		return ErrInvalidTheme
	}
	sess := s.session(r)
	sess.Values[themeKey] = theme
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// Toggle flips the visitor's theme and returns the new value
func (s *ThemeStore) Toggle(w http.ResponseWriter, r *http.Request) (string, error) {
	next := ThemeDark
	if s.Theme(r) == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(w, r, next)
}

// AddFlash queues an alert for the visitor's next page view
func (s *ThemeStore) AddFlash(w http.ResponseWriter, r *http.Request, message string) error {
	sess := s.session(r)
	sess.AddFlash(message)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("failed to save flash: %w", err)
	}
	return nil
}

// Flashes returns and clears the visitor's queued alerts.
// Must be called before anything is written to w.
func (s *ThemeStore) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess := s.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(r, w)

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

func validTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}
