package realtime

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20
)

var errConnClosed = errors.New("connection closed")

// WebSocketHandler serves the realtime search protocol over WebSocket.
type WebSocketHandler struct {
	dispatcher *Dispatcher
	pool       *ants.Pool
	queueSize  int
	upgrader   websocket.Upgrader
	logger     zerolog.Logger

	pongWait   time.Duration
	pingPeriod time.Duration
}

// NewWebSocketHandler creates the handler. Dispatcher work runs on pool,
// which bounds how many messages are processed at once across connections.
func NewWebSocketHandler(dispatcher *Dispatcher, pool *ants.Pool, queueSize int, logger zerolog.Logger) *WebSocketHandler {
	if queueSize < 1 {
		queueSize = 1
	}
	return &WebSocketHandler{
		dispatcher: dispatcher,
		pool:       pool,
		queueSize:  queueSize,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:     logger.With().Str("component", "websocket").Logger(),
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
	}
}

// RegisterRoutes mounts the WebSocket endpoint.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("upgrade failed")
		return
	}

	conn := &wsConn{ws: ws}
	defer conn.close()

	sessionID := h.dispatcher.Open(conn)
	defer h.dispatcher.Close(sessionID)

	queue := make(chan []byte, h.queueSize)
	defer close(queue)

	// Coordinator calls outlive the socket; only the loops below stop on close.
	dispatchCtx := context.WithoutCancel(r.Context())
	ctx, cancel := context.WithCancel(dispatchCtx)
	defer cancel()

	go h.drain(ctx, dispatchCtx, sessionID, queue)
	go h.pingLoop(ctx, conn)

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(h.pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(h.pongWait))
	})

	for {
		msgType, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("read error")
			}
			break
		}

		ws.SetReadDeadline(time.Now().Add(h.pongWait))

		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		// A full queue blocks the reader until the drainer catches up, which
		// can take longer than pongWait behind slow searches.
		queue <- data
		ws.SetReadDeadline(time.Now().Add(h.pongWait))
	}
}

// drain handles queued frames one at a time so replies keep the order of the
// requests. Frames still queued after the connection closes are discarded.
func (h *WebSocketHandler) drain(ctx, dispatchCtx context.Context, sessionID string, queue <-chan []byte) {
	for raw := range queue {
		if ctx.Err() != nil {
			continue
		}
		h.dispatch(dispatchCtx, sessionID, raw)
	}
}

// dispatch runs one frame on the shared pool and waits for it. If the pool
// cannot take work the frame is handled on the caller's goroutine.
func (h *WebSocketHandler) dispatch(ctx context.Context, sessionID string, raw []byte) {
	if h.pool == nil {
		h.dispatcher.Handle(ctx, sessionID, raw)
		return
	}

	done := make(chan struct{})
	err := h.pool.Submit(func() {
		defer close(done)
		h.dispatcher.Handle(ctx, sessionID, raw)
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("worker pool rejected message, handling inline")
		h.dispatcher.Handle(ctx, sessionID, raw)
		return
	}
	<-done
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *wsConn) {
	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}

// wsConn serializes writes to a gorilla connection, which supports a single
// concurrent writer.
type wsConn struct {
	mu     sync.Mutex
	ws     *websocket.Conn
	closed bool
}

// Send writes v as a JSON text frame.
func (c *wsConn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errConnClosed
	}
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errConnClosed
	}
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *wsConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.ws.Close()
}
