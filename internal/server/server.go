// Package server exposes the style engine to a browser: JSON endpoints for
// one-off conversions and a WebSocket that previews every style per message.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dyne/fancyfont/internal/log"
	"github.com/dyne/fancyfont/internal/style"
)

// maxMessage caps one WebSocket frame.
const maxMessage = 64 << 10

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Server struct {
	addr   string
	styles []string
	logger *log.Logger

	server   *http.Server
	listener net.Listener

	mu       sync.Mutex
	closed   bool
	sessions map[*session]struct{}
	wg       sync.WaitGroup
}

// New returns a server for addr that previews styles (every listed style when
// empty). logger may be nil.
func New(addr string, styles []string, logger *log.Logger) *Server {
	if len(styles) == 0 {
		styles = style.IDs()
	}
	s := &Server{
		addr:     addr,
		styles:   styles,
		logger:   logger,
		sessions: map[*session]struct{}{},
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/styles", s.handleStyles)
	mux.HandleFunc("/transform", s.handleTransform)
	mux.HandleFunc("/live", s.handleLive)
	return mux
}

// Start listens and serves in the background. Addr reports the bound address.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.listener = ln
	s.infof("serving on http://%s", ln.Addr())
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errorf("serve: %v", err)
		}
	}()
	return nil
}

func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Close stops accepting requests and drops every live session.
func (s *Server) Close() error {
	err := s.server.Close()
	s.mu.Lock()
	s.closed = true
	for sess := range s.sessions {
		sess.conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	return err
}

type transformResponse struct {
	Style string `json:"style"`
	Text  string `json:"text"`
	Value string `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, style.List())
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	q := r.URL.Query()
	id := q.Get("style")
	if err := style.Check(id); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	text := q.Get("text")
	writeJSON(w, http.StatusOK, transformResponse{Style: id, Text: text, Value: style.Transform(text, id)})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.debugf("upgrade: %v", err)
		return
	}
	conn.SetReadLimit(maxMessage)
	sess := &session{conn: conn, styles: s.styles}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"))
		conn.Close()
		return
	}
	s.sessions[sess] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()
	s.debugf("live session from %s", r.RemoteAddr)

	go func() {
		defer s.wg.Done()
		sess.handleMessages(s.logger)
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
		conn.Close()
	}()
}

// Sessions returns the number of open live sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) infof(format string, args ...any) {
	if s.logger != nil {
		s.logger.Infof(format, args...)
	}
}

func (s *Server) debugf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Debugf(format, args...)
	}
}

func (s *Server) errorf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Errorf(format, args...)
	}
}
