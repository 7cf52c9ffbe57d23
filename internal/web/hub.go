package web

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsMsg struct {
	Type string `json:"type"`
}

// hub tracks open page sockets so a dataset reload can tell every page to
// re-render. Pages hold one read-only socket; nothing is ever read from
// them except to detect the close.
type hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func newHub() *hub {
	return &hub{conns: map[*websocket.Conn]bool{}}
}

func (h *hub) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Printf("ws: connect from=%s", r.RemoteAddr)
	// Hello goes out before the conn is registered; once it is in the map,
	// broadcast owns all writes to it.
	_ = conn.WriteJSON(wsMsg{Type: "hello"})
	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()
	go h.drain(conn)
}

func (h *hub) drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *hub) broadcast(msg wsMsg) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(msg); err != nil {
			delete(h.conns, conn)
			_ = conn.Close()
		}
	}
}
