package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"Folio/internal/core/page"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = 30 * time.Second

	// liveBuffer is how many updates may queue for a slow client before new ones are dropped
	liveBuffer = 16
)

// liveMessage is pushed to clients whenever a section's markup changes
type liveMessage struct {
	Section string `json:"section"`
	Markup  string `json:"markup"`
	Loading bool   `json:"loading"`
}

// LiveHandler upgrades to a websocket and pushes every section update until
// the client goes away.
type LiveHandler struct {
	sections Sections
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewLiveHandler creates a LiveHandler. Browsers on other origins are
// accepted only if checkOrigin allows them; nil keeps the same-origin check.
func NewLiveHandler(sections Sections, checkOrigin func(r *http.Request) bool, logger *slog.Logger) *LiveHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveHandler{
		sections: sections,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// ServeHTTP handles GET /live
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.logger.Debug("live upgrade failed", "error", err)
		return
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			h.logger.Debug("failed to close live connection", "error", closeErr)
		}
	}()

	updates := make(chan page.Update, liveBuffer)
	unsubscribe := h.sections.Subscribe(func(u page.Update) {
		select {
		case updates <- u:
		default:
			h.logger.Warn("live client too slow, dropping update", "section", u.Section)
		}
	})
	defer unsubscribe()

	// The read loop only services pongs and close frames
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(livePongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case u := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			msg := liveMessage{Section: u.Section, Markup: string(u.Markup), Loading: u.Loading}
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("live write failed", "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				h.logger.Debug("live ping failed", "error", err)
				return
			}
		}
	}
}
