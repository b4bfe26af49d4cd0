package events

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/louisbranch/subtrack/internal/platform/timeouts"
	"github.com/louisbranch/subtrack/internal/services/changefeed"
	module "github.com/louisbranch/subtrack/internal/services/web/module"
	apperrors "github.com/louisbranch/subtrack/internal/services/web/platform/errors"
	"github.com/louisbranch/subtrack/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/subtrack/internal/services/web/platform/weberror"
	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

type handlers struct {
	deps      module.Dependencies
	heartbeat time.Duration
	logger    *zap.Logger
}

func newHandlers(deps module.Dependencies) handlers {
	heartbeat := deps.FeedHeartbeat
	if heartbeat <= 0 {
		heartbeat = timeouts.FeedHeartbeat
	}
	return handlers{deps: deps, heartbeat: heartbeat, logger: deps.NamedLogger("feed")}
}

// subscribe resolves the viewer and opens a feed subscription, writing the
// error response itself when it cannot.
func (h handlers) subscribe(w http.ResponseWriter, r *http.Request) (*changefeed.Subscription, func(), string, bool) {
	viewer := h.deps.Viewer(r)
	if !viewer.Signed() {
		weberror.WriteModuleError(w, r, apperrors.E(apperrors.KindUnauthorized, "viewer is not signed in"), h.deps)
		return nil, nil, "", false
	}
	if h.deps.Feed == nil {
		weberror.WriteModuleError(w, r, apperrors.E(apperrors.KindUnavailable, "change feed is not configured"), h.deps)
		return nil, nil, "", false
	}
	sub, cancel := h.deps.Feed.Subscribe(viewer.UserID)
	return sub, cancel, viewer.UserID, true
}

func (h handlers) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	sub, cancel, userID, ok := h.subscribe(w, r)
	if !ok {
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := writeSSEComment(w, "connected"); err != nil {
		return
	}
	flusher.Flush()
	h.logger.Debug("sse stream opened", zap.String("user_id", userID))

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := writeSSEComment(w, "keepalive"); err != nil {
				return
			}
			flusher.Flush()
		case event, open := <-sub.Events():
			if !open {
				return
			}
			if err := writeSSEEvent(w, event); err != nil {
				h.logger.Debug("sse write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func (h handlers) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	sub, cancel, userID, ok := h.subscribe(w, r)
	if !ok {
		return
	}
	defer cancel()

	server := websocket.Server{
		Handshake: func(_ *websocket.Config, req *http.Request) error {
			if !requestmeta.HasSameOriginProof(req, h.deps.SchemePolicy) {
				return apperrors.E(apperrors.KindForbidden, "websocket origin mismatch")
			}
			return nil
		},
		Handler: func(conn *websocket.Conn) {
			h.serveWebsocket(conn, sub, userID)
		},
	}
	server.ServeHTTP(w, r)
}

type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{encoder: encoder}
}

func (p *wsPeer) writeFrame(frame wsFrame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}

func (h handlers) serveWebsocket(conn *websocket.Conn, sub *changefeed.Subscription, userID string) {
	defer func() {
		_ = conn.Close()
	}()
	peer := newWSPeer(json.NewEncoder(conn))
	h.logger.Debug("websocket opened", zap.String("user_id", userID))

	// Clients never send frames; reading only detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_, _ = io.Copy(io.Discard, conn)
	}()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			if err := peer.writeFrame(wsFrame{Type: frameTypeKeepalive}); err != nil {
				return
			}
		case event, open := <-sub.Events():
			if !open {
				return
			}
			frame, err := changeFrame(event)
			if err != nil {
				h.logger.Warn("encode change frame", zap.Error(err))
				continue
			}
			if err := peer.writeFrame(frame); err != nil {
				return
			}
		}
	}
}
