package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/couchcryptid/bloomwatch/internal/feed"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard is served from other origins during development.
	CheckOrigin: func(*http.Request) bool { return true },
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.deps.Feed.Current()
	if !ok {
		respond(w, r, http.StatusServiceUnavailable, map[string]string{"error": "no snapshot published yet"})
		return
	}
	respond(w, r, http.StatusOK, snap)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Feed.Refresh(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, snap)
}

// handleSnapshotStream upgrades to a WebSocket and pushes every published
// snapshot as a JSON text message until either side goes away. Client
// messages are read only to process control frames.
func (s *Server) handleSnapshotStream(w http.ResponseWriter, r *http.Request) {
	sub, err := s.deps.Feed.Subscribe()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.logger.Debug("snapshot stream opened", "remote", r.RemoteAddr)
	defer s.logger.Debug("snapshot stream closed", "remote", r.RemoteAddr)

	clientGone := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-clientGone:
			return
		case snap, ok := <-sub.C():
			if !ok {
				closeStream(conn, websocket.CloseGoingAway, feed.ErrStopped.Error())
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

func closeStream(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteWait))
}
