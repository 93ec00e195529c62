package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/iwvelando/tokenomics-planner/internal/planner"
	"go.uber.org/zap"
)

// liveMessage is one frame pushed to a live session: either the snapshot
// after an edit or the error that rejected it. Sequence counts the edits
// applied so far.
type liveMessage struct {
	SessionID string            `json:"sessionId"`
	Sequence  int               `json:"sequence"`
	Snapshot  *planner.Snapshot `json:"snapshot,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// liveSession owns the planner state of one WebSocket connection. Only the
// connection's read loop touches it.
type liveSession struct {
	id      string
	conn    *websocket.Conn
	state   planner.State
	applied int
	logger  *zap.Logger
}

func (h *handler) handleLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the error response.
		h.logger.Warn("websocket upgrade failed",
			zap.String("op", "server.handleLive"),
			zap.Error(err),
		)
		return
	}
	conn.SetReadLimit(h.maxBodySize)

	session := &liveSession{
		id:    uuid.NewString(),
		conn:  conn,
		state: planner.New(),
	}
	session.logger = h.logger.With(zap.String("sessionId", session.id))

	h.metrics.liveSessions.Inc()
	defer func() {
		h.metrics.liveSessions.Dec()
		_ = conn.Close()
	}()

	session.logger.Info("live session opened",
		zap.String("op", "server.handleLive"),
		zap.String("requestId", r.Header.Get(RequestIDHeader)),
	)

	if err := h.pushSnapshot(session); err != nil {
		return
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				session.logger.Warn("live session read failed",
					zap.String("op", "server.handleLive"),
					zap.Error(err),
				)
			}
			session.logger.Info("live session closed",
				zap.String("op", "server.handleLive"),
				zap.Int("edits", session.applied),
			)
			return
		}

		var edit planner.Edit
		if err := json.Unmarshal(message, &edit); err != nil {
			if pushErr := h.pushError(session, "failed to decode edit: "+err.Error()); pushErr != nil {
				return
			}
			continue
		}

		next, err := session.state.Apply(edit)
		h.metrics.observeEdit(edit.Op, err)
		if err != nil {
			if pushErr := h.pushError(session, err.Error()); pushErr != nil {
				return
			}
			continue
		}
		session.state = next
		session.applied++

		if err := h.pushSnapshot(session); err != nil {
			return
		}
	}
}

func (h *handler) pushSnapshot(session *liveSession) error {
	snap := h.compute(session.state, h.horizon, "server.handleLive")
	return h.writeLive(session, liveMessage{
		SessionID: session.id,
		Sequence:  session.applied,
		Snapshot:  &snap,
		Warnings:  snap.Result.Metrics.WarningMessages(),
	})
}

func (h *handler) pushError(session *liveSession, msg string) error {
	return h.writeLive(session, liveMessage{
		SessionID: session.id,
		Sequence:  session.applied,
		Error:     msg,
	})
}

func (h *handler) writeLive(session *liveSession, msg liveMessage) error {
	if err := session.conn.WriteJSON(msg); err != nil {
		session.logger.Warn("live session write failed",
			zap.String("op", "server.writeLive"),
			zap.Error(err),
		)
		return err
	}
	return nil
}
