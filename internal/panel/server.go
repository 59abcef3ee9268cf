package panel

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

//go:embed static/*
var staticFiles embed.FS

const shutdownTimeout = 5 * time.Second

// Server serves the panel page, its websocket and the metrics endpoint.
type Server struct {
	bridge      *Bridge
	broadcaster *Broadcaster
	metrics     http.Handler
}

// NewServer creates a server. metrics may be nil.
func NewServer(bridge *Bridge, broadcaster *Broadcaster, metrics http.Handler) *Server {
	return &Server{bridge: bridge, broadcaster: broadcaster, metrics: metrics}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))
	return securityHeaders(mux)
}

// Serve listens on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, listener)
}

func (s *Server) serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("panel: listening on http://%s", listener.Addr())
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.broadcaster.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("panel: ws upgrade: %v", err)
		return
	}

	// The read loop stays on the handler goroutine so the request context
	// remains valid for the commands it runs.
	ctx := r.Context()
	log.Printf("panel: client connected: %s", r.RemoteAddr)
	c := s.broadcaster.AddClient(conn, s.bridge.InitialMessages(ctx)...)
	defer func() {
		s.broadcaster.RemoveClient(c)
		log.Printf("panel: client disconnected: %s", r.RemoteAddr)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.dispatch(ctx, c, data)
	}
}

func (s *Server) dispatch(ctx context.Context, c *client, data []byte) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.broadcaster.Send(c, ErrorMessage{Command: MsgError, Message: "malformed message"})
		return
	}

	replies, err := s.bridge.Handle(ctx, msg)
	if err != nil {
		log.Printf("panel: %s: %v", msg.Command, err)
		s.broadcaster.Send(c, ErrorMessage{Command: MsgError, Message: err.Error()})
		return
	}
	for _, reply := range replies {
		s.broadcaster.Send(c, reply)
	}
}

// checkOrigin accepts requests without an Origin header and pages served from
// the loopback interface only.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	host := parsed.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(strings.Trim(host, "[]"))
	return ip != nil && ip.IsLoopback()
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; connect-src 'self' ws: wss:")
		next.ServeHTTP(w, r)
	})
}
