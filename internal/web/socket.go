package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/jaminalder/tictoc/internal/app"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// socket upgrades to a websocket carrying Message envelopes. Every board
// change in the game is pushed as a BoardBroadcast.
func (h *handlers) socket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	pid := ensurePlayerCookie(w, r)
	// The upgrade bypasses w.Header(), so carry a freshly issued cookie over.
	var hdr http.Header
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
		hdr = http.Header{"Set-Cookie": cookies}
	}
	conn, err := upgrader.Upgrade(w, r, hdr)
	if err != nil {
		h.log.Warn("websocket upgrade", zap.String("game", id), zap.Error(err))
		return
	}
	defer conn.Close()
	_, _, _ = h.svc.Join(id, pid)

	ctx := r.Context()
	updates, unsub := h.svc.Subscribe(ctx, id)
	defer unsub()

	send := make(chan []byte, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := h.writeLoop(conn, send, updates, id); err != nil {
			h.log.Debug("websocket write", zap.String("game", id), zap.Error(err))
		}
	}()

	if gs, ok := h.svc.Get(id); ok {
		send <- toMessage("BoardBroadcast", newBoardBroadcast(*gs))
	}
	h.readLoop(conn, send, done, id, pid)
	close(send)
	<-done
}

func (h *handlers) readLoop(conn *websocket.Conn, send chan<- []byte, done <-chan struct{}, id, pid string) {
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("websocket read", zap.String("game", id), zap.Error(err))
			}
			return
		}
		select {
		case send <- h.handleMessage(msg, id, pid):
		case <-done:
			return
		}
	}
}

func (h *handlers) handleMessage(msg Message, id, pid string) []byte {
	switch msg.Type {
	case "MakeMoveRequest":
		req, err := decodeMove(msg.Contents)
		if err != nil {
			return toMessage("ErrorResponse", ErrorResponse{Reason: "Unable to parse MakeMoveRequest"})
		}
		if _, err := h.svc.Play(id, pid, req.R, req.C); err != nil {
			return toMessage("MakeMoveResponse", MakeMoveResponse{Reason: errorMessage(err)})
		}
		return toMessage("MakeMoveResponse", MakeMoveResponse{Status: true})
	case "GetBoardRequest":
		gs, ok := h.svc.Get(id)
		if !ok {
			return toMessage("ErrorResponse", ErrorResponse{Reason: app.ErrNotFound.Error()})
		}
		return toMessage("BoardBroadcast", newBoardBroadcast(*gs))
	default:
		return toMessage("ErrorResponse", ErrorResponse{Reason: "Unknown message type " + msg.Type})
	}
}

// writeLoop owns all writes to conn. Board updates from the service are
// re-read as JSON; a ping is sent when the connection has been idle.
func (h *handlers) writeLoop(conn *websocket.Conn, send <-chan []byte, updates <-chan []byte, id string) error {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	lastWrite := time.Now()
	ping := toMessage("Ping", struct{}{})

	write := func(b []byte) error {
		lastWrite = time.Now()
		return conn.WriteMessage(websocket.TextMessage, b)
	}
	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := write(msg); err != nil {
				return err
			}
		case _, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			gs, found := h.svc.Get(id)
			if !found {
				continue
			}
			if err := write(toMessage("BoardBroadcast", newBoardBroadcast(*gs))); err != nil {
				return err
			}
		case <-ticker.C:
			if time.Since(lastWrite) < h.heartbeat {
				continue
			}
			if err := write(ping); err != nil {
				return err
			}
		}
	}
}
