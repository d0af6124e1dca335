// Package server exposes a shared engine to websocket clients. Every
// connection gets its own speaker; commands arrive as JSON text frames, events
// leave as JSON envelopes and audio as binary frames.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-espeak/core/events"
	"github.com/koscakluka/ema-espeak/core/speaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultSendQueue    = 256
	DefaultPingInterval = 30 * time.Second

	maxCommandSize = 64 * 1024
	writeWait      = 10 * time.Second
)

type Server struct {
	director *speaker.Director
	upgrader websocket.Upgrader

	sendQueue    int
	pingInterval time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

type Option func(*Server)

// WithCheckOrigin decides which browser origins may connect. Without it only
// same-origin requests are accepted.
func WithCheckOrigin(check func(*http.Request) bool) Option {
	return func(s *Server) { s.upgrader.CheckOrigin = check }
}

// WithSendQueue bounds the messages waiting for a slow client. Messages beyond
// it are dropped.
func WithSendQueue(size int) Option {
	return func(s *Server) {
		if size > 0 {
			s.sendQueue = size
		}
	}
}

func WithPingInterval(interval time.Duration) Option {
	return func(s *Server) {
		if interval > 0 {
			s.pingInterval = interval
		}
	}
}

// New registers the server's director as commander's synth callback.
func New(commander speaker.Commander, opts ...Option) (*Server, error) {
	s := &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 16 * 1024,
		},
		sendQueue:    DefaultSendQueue,
		pingInterval: DefaultPingInterval,
		sessions:     map[string]*session{},
	}
	for _, opt := range opts {
		opt(s)
	}

	director, err := speaker.NewDirector(commander, speaker.WithSwitchHook(s.speakerSwitched))
	if err != nil {
		return nil, err
	}
	s.director = director
	return s, nil
}

// Handler serves the websocket endpoint on /ws and a liveness probe on
// /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.serveWebsocket)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return otelhttp.NewHandler(mux, "espeak",
		otelhttp.WithSpanNameFormatter(func(operationName string, r *http.Request) string {
			return operationName + " " + r.URL.Path
		}),
	)
}

func (s *Server) Director() *speaker.Director {
	return s.director
}

// Sessions is the number of connected clients.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close disconnects every client.
func (s *Server) Close() {
	for _, sess := range s.snapshot() {
		sess.close()
	}
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	ctx := r.Context()

	sess := newSession(s, conn)
	s.add(sess)
	logger.InfoContext(ctx, "session opened", "session", sess.id, "remote", r.RemoteAddr)

	go sess.writeLoop()
	sess.readLoop(ctx)

	s.remove(ctx, sess)
	logger.InfoContext(ctx, "session closed", "session", sess.id)
}

func (s *Server) add(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.id] = sess
}

func (s *Server) remove(ctx context.Context, sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()

	if err := sess.speaker.Close(ctx); err != nil {
		logger.WarnContext(ctx, "failed to release session speaker", "session", sess.id, "error", err)
	}
}

func (s *Server) snapshot() []*session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	return sessions
}

// speakerSwitched tells every client who holds the engine now.
func (s *Server) speakerSwitched(previous, current string) {
	event := events.NewSpeakerSwitched(previous, current)
	for _, sess := range s.snapshot() {
		sess.sendEvent(event)
	}
}
