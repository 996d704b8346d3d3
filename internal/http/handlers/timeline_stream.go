package handlers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/net/websocket"

	"github.com/wolfman30/clinic-console/internal/aggregate"
	"github.com/wolfman30/clinic-console/internal/tenancy"
)

// TimelineMessage is one frame of the live timeline stream.
type TimelineMessage struct {
	Type     string              `json:"type"`
	Now      time.Time           `json:"now"`
	Version  uint64              `json:"version,omitempty"`
	Timeline *aggregate.Timeline `json:"timeline,omitempty"`
}

// StreamTimeline upgrades to a websocket and pushes the viewer's timeline on
// every tick, reclassified against the current instant.
// GET /ws/timeline
func (h *ConsoleHandler) StreamTimeline(w http.ResponseWriter, r *http.Request) {
	v, ok := tenancy.ViewerFromContext(r.Context())
	if !ok {
		jsonError(w, "viewer required", http.StatusUnauthorized)
		return
	}
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveTimeline(r.Context(), conn, v)
	}).ServeHTTP(w, r)
}

func (h *ConsoleHandler) serveTimeline(ctx context.Context, conn *websocket.Conn, v tenancy.Viewer) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The client never sends anything we act on; a failed read means it left.
	go func() {
		defer cancel()
		for {
			var discard string
			if err := websocket.Message.Receive(conn, &discard); err != nil {
				return
			}
		}
	}()

	h.logger.Info("timeline: stream opened", "viewer", v.Key())
	defer h.logger.Debug("timeline: stream closed", "viewer", v.Key())

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()
	for {
		if err := websocket.JSON.Send(conn, h.timelineFrame(ctx, v)); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *ConsoleHandler) timelineFrame(ctx context.Context, v tenancy.Viewer) TimelineMessage {
	snap := h.engine.Snapshot(ctx, v, nil)
	tl := h.engine.Timeline(snap)
	return TimelineMessage{
		Type:     "timeline",
		Now:      h.engine.Clock().Now(),
		Version:  snap.Version,
		Timeline: &tl,
	}
}
