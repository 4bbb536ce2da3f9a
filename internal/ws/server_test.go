package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/example/jacketglow/internal/diagnostics"
	"github.com/example/jacketglow/internal/led"
)

func dialFrames(t *testing.T, s *Server) (*websocket.Conn, func()) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFrames)
	mux.HandleFunc("/diag", s.HandleDiag)
	mux.HandleFunc("/health", s.HandleHealth)
	srv := httptest.NewServer(mux)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestWriteForwardsDownstreamAndBroadcasts(t *testing.T) {
	sim := led.NewSim()
	s := NewServer(2, sim)
	s.SetEffect("fade")

	conn, done := dialFrames(t, s)
	defer done()

	// Hello message first.
	var hello struct {
		Count  int    `json:"count"`
		Effect string `json:"effect"`
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	assert.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, 2, hello.Count)
	assert.Equal(t, "fade", hello.Effect)

	frame := []byte{255, 0, 0, 0, 255, 0}
	assert.NoError(t, s.Write(frame))
	assert.Equal(t, frame, sim.Last(), "frame reaches the wrapped driver")

	var got struct {
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	assert.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, uint64(1), got.FrameID)
	assert.Equal(t, frame, got.RGB)
}

func TestWriteWithoutClientsOrInner(t *testing.T) {
	s := NewServer(2, nil)
	assert.NoError(t, s.Write([]byte{1, 2, 3, 4, 5, 6}))
	assert.NoError(t, s.Close())
}

func TestPushDiagWithoutClients(t *testing.T) {
	s := NewServer(1, nil)
	// Must not block or panic with nobody listening.
	s.PushDiag(diagnostics.Diagnostic{Severity: diagnostics.Warn, Code: "POLL.FAIL", Summary: "poll failed"})
}

func TestHealthReportsState(t *testing.T) {
	s := NewServer(84, nil)
	s.SetEffect("colour_rain")
	_ = s.Write(make([]byte, 84*3))

	rec := httptest.NewRecorder()
	s.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `"count":84`)
	assert.Contains(t, body, `"effect":"colour_rain"`)
	assert.Contains(t, body, `"frame_id":1`)
}
