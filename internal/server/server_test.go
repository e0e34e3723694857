package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyne/fancyfont/internal/log"
	"github.com/dyne/fancyfont/internal/style"
)

func newTestServer(t *testing.T, styles []string) (*Server, *httptest.Server) {
	t.Helper()
	s := New("127.0.0.1:0", styles, log.New(log.LevelDebug, io.Discard))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func getJSON(t *testing.T, u string, v any) int {
	t.Helper()
	resp, err := http.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func TestStyles(t *testing.T) {
	_, ts := newTestServer(t, nil)
	var list []style.Info
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/styles", &list))
	assert.Equal(t, style.List(), list)
}

func TestTransform(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var got transformResponse
	q := url.Values{"style": {"bubble"}, "text": {"Hi 10"}}
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/transform?"+q.Encode(), &got))
	assert.Equal(t, transformResponse{Style: "bubble", Text: "Hi 10", Value: "Ⓗⓘ ①⓪"}, got)

	var bad errorResponse
	q = url.Values{"style": {"comic"}, "text": {"Hi"}}
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/transform?"+q.Encode(), &bad))
	assert.Contains(t, bad.Error, "unknown style")

	resp, err := http.Post(ts.URL+"/transform", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func TestLive(t *testing.T) {
	_, ts := newTestServer(t, []string{"bold", "reversed"})
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(liveRequest{Text: "ab"}))
	var resp liveResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Empty(t, resp.Error)
	assert.Equal(t, []style.Result{
		{ID: "bold", Name: "Bold", Value: style.Transform("ab", "bold")},
		{ID: "reversed", Name: "Reversed", Value: "qɐ"},
	}, resp.Results)

	require.NoError(t, conn.WriteJSON(liveRequest{Text: "ab", Style: "smallCaps"}))
	resp = liveResponse{}
	require.NoError(t, conn.ReadJSON(&resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "ᴀʙ", resp.Results[0].Value)

	require.NoError(t, conn.WriteJSON(liveRequest{Text: "ab", Style: "comic"}))
	resp = liveResponse{}
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Contains(t, resp.Error, "unknown style")
	assert.Empty(t, resp.Results)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	resp = liveResponse{}
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Contains(t, resp.Error, "invalid request")
}

func TestStartAndClose(t *testing.T) {
	s := New("127.0.0.1:0", nil, nil)
	require.NoError(t, s.Start())
	assert.NotEqual(t, "127.0.0.1:0", s.Addr())

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+s.Addr()+"/live", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.WriteJSON(liveRequest{Text: "z"}))
	var resp liveResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Len(t, resp.Results, len(style.List()))
	assert.Equal(t, 1, s.Sessions())

	require.NoError(t, s.Close())
	assert.Equal(t, 0, s.Sessions())
}

func TestClosedServerRefusesLive(t *testing.T) {
	s, ts := newTestServer(t, nil)
	require.NoError(t, s.Close())

	conn := dial(t, ts)
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	assert.Equal(t, 0, s.Sessions())
}
