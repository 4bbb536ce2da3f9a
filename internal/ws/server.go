package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/example/jacketglow/internal/diagnostics"
	"github.com/example/jacketglow/internal/led"
)

// Server mirrors every committed frame to websocket preview clients and
// answers health checks. It implements led.Driver so it can wrap the real
// output driver: a frame is forwarded downstream first, then broadcast.
type Server struct {
	mu          sync.RWMutex
	inner       led.Driver
	count       int
	effect      string
	frameID     uint64
	start       time.Time
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
}

// NewServer wraps inner, which may be nil when preview is the only output.
func NewServer(count int, inner led.Driver) *Server {
	return &Server{
		inner:       inner,
		count:       count,
		start:       time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
	}
}

// SetEffect records the active effect name for /health and hello messages.
func (s *Server) SetEffect(name string) {
	s.mu.Lock()
	s.effect = name
	s.mu.Unlock()
}

func (s *Server) Write(rgb []byte) error {
	s.mu.Lock()
	s.frameID++
	id := s.frameID
	inner := s.inner
	s.mu.Unlock()

	if inner != nil {
		if err := inner.Write(rgb); err != nil {
			return err
		}
	}
	s.broadcastFrame(id, rgb)
	return nil
}

func (s *Server) Close() error {
	s.mu.Lock()
	for c := range s.clients {
		_ = c.Close()
	}
	for c := range s.diagClients {
		_ = c.Close()
	}
	s.clients = map[*websocket.Conn]bool{}
	s.diagClients = map[*websocket.Conn]bool{}
	inner := s.inner
	s.mu.Unlock()

	if inner != nil {
		return inner.Close()
	}
	return nil
}

func (s *Server) HandleFrames(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	s.sendHello(conn)

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) HandleDiag(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.mu.Unlock()
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.diagClients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.start).Seconds(),
		"count":    s.count,
		"effect":   s.effect,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// PushDiag fans a diagnostic out to the diag clients.
func (s *Server) PushDiag(d diagnostics.Diagnostic) {
	b, _ := json.Marshal(d)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.diagClients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

func (s *Server) sendHello(conn *websocket.Conn) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hello := map[string]any{
		"count":  s.count,
		"effect": s.effect,
	}
	b, _ := json.Marshal(hello)
	_ = conn.WriteMessage(websocket.TextMessage, b)
}

func (s *Server) broadcastFrame(id uint64, rgb []byte) {
	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	b, _ := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: id, RGB: rgb})
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}
