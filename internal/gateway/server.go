// Package gateway exposes the game over websockets. Each connection carries
// one user: inbound frames are raw command text, outbound frames are the
// JSON message envelope with the rendered scene attached.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/funmud/funmud/internal/messaging"
	"github.com/funmud/funmud/internal/session"
)

const (
	// timeout for writing a frame to the peer.
	writeWait = 10 * time.Second

	// how long to wait for a pong before giving the connection up.
	pongWait = 60 * time.Second

	// ping frequency; must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// commands are short lines; anything bigger is a misbehaving client.
	maxMessageSize = 1024

	sendQueueSize = 16
)

type Server struct {
	port     uint16
	sessions *session.Manager
	bus      *messaging.NatsServer
	upgrader websocket.Upgrader
}

func NewServer(port uint16, sessions *session.Manager, bus *messaging.NatsServer) *Server {
	return &Server{
		port:     port,
		sessions: sessions,
		bus:      bus,
	}
}

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket(ctx))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.InfoContext(ctx, "listening for websockets", "port", s.port)

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("serving websockets on port %d: %w", s.port, err)
}

func (s *Server) handleWebSocket(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("uid")
		if userID == "" {
			http.Error(w, "missing uid query parameter", http.StatusBadRequest)
			return
		}

		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.ErrorContext(ctx, "upgrading connection", "error", err)
			return
		}

		c := &client{
			userID:   userID,
			conn:     conn,
			sessions: s.sessions,
			send:     make(chan []byte, sendQueueSize),
		}

		// Route the user's subject onto this connection for its lifetime.
		unsub, err := s.bus.Subscribe(messaging.UserSubject(userID), c.enqueue)
		if err != nil {
			slog.ErrorContext(ctx, "subscribing user", "user", userID, "error", err)
			conn.Close()
			return
		}
		defer unsub()

		slog.InfoContext(ctx, "websocket connected", "user", userID)

		go c.writePump()
		c.readPump(ctx)
	}
}

type client struct {
	userID   string
	conn     *websocket.Conn
	sessions *session.Manager
	send     chan []byte
}

// enqueue hands an outbound envelope to the write pump, dropping it if the
// client can't keep up.
func (c *client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		slog.Warn("send queue full, dropping message", "user", c.userID)
	}
}

func (c *client) readPump(ctx context.Context) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "reading websocket", "user", c.userID, "error", err)
			}
			return
		}
		if err := c.sessions.Handle(ctx, c.userID, string(data)); err != nil {
			slog.WarnContext(ctx, "handling message", "user", c.userID, "error", err)
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
