package messages

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"playpal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins — adjust for production if needed
		return true
	},
}

// Feed pushes new inbox entries to connected clients, keyed by receiver id.
// Delivery is best-effort; the persisted inbox is the source of truth.
type Feed struct {
	mu          sync.Mutex
	subscribers map[string][]*websocket.Conn
}

func NewFeed() *Feed {
	return &Feed{subscribers: make(map[string][]*websocket.Conn)}
}

// HandleWS subscribes the authenticated user to live inbox pushes. The
// connection stays open until the client disconnects.
func (f *Feed) HandleWS(userID string, w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.subscribers[userID] = append(f.subscribers[userID], conn)
	f.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	f.mu.Lock()
	conns := f.subscribers[userID]
	remaining := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			remaining = append(remaining, c)
		}
	}
	f.subscribers[userID] = remaining
	f.mu.Unlock()

	conn.Close()
}

// Publish writes the message to every live connection of the receiver,
// dropping connections that fail.
func (f *Feed) Publish(receiverID string, msg *models.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	conns := f.subscribers[receiverID]
	alive := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err == nil {
			alive = append(alive, conn)
		} else {
			conn.Close()
		}
	}
	f.subscribers[receiverID] = alive
}
