package server

import (
	"encoding/json"

	"github.com/gorilla/websocket"

	"github.com/dyne/fancyfont/internal/log"
	"github.com/dyne/fancyfont/internal/style"
)

type liveRequest struct {
	Text  string `json:"text"`
	Style string `json:"style,omitempty"`
}

type liveResponse struct {
	Results []style.Result `json:"results,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type session struct {
	conn   *websocket.Conn
	styles []string
}

// handleMessages answers every text frame in order until the peer goes away.
func (s *session) handleMessages(logger *log.Logger) {
	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		resp := s.respond(message)
		if err := s.conn.WriteJSON(resp); err != nil {
			if logger != nil {
				logger.Debugf("live write: %v", err)
			}
			return
		}
	}
}

func (s *session) respond(message []byte) liveResponse {
	var req liveRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return liveResponse{Error: "invalid request: " + err.Error()}
	}
	if req.Style == "" {
		return liveResponse{Results: style.Apply(req.Text, s.styles)}
	}
	if err := style.Check(req.Style); err != nil {
		return liveResponse{Error: err.Error()}
	}
	return liveResponse{Results: style.Apply(req.Text, []string{req.Style})}
}
