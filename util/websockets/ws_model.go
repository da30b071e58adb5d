package websockets

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message types sent to clients. Group events carry their own type, such as
// sos.created, inside the event payload.
const (
	MsgTypeWelcome = "welcome"
	MsgTypeEvent   = "event"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	clientBuffer   = 32
)

// Client is one authenticated connection. A user may hold several.
type Client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// Hub fans events out to the connections of the addressed users.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	done       chan struct{}
	mu         sync.RWMutex
	log        Logger
	upgrader   websocket.Upgrader
}

type delivery struct {
	userIDs []string
	payload []byte
}

// Message is the JSON frame written to clients.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}
