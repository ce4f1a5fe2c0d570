package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	maxFrameSize = 4096
	sendBuffer   = 64
)

// Capability entry granting every channel.
const AnyChannel = "*"

const (
	ActionAttach   = "attach"
	ActionDetach   = "detach"
	ActionAttached = "attached"
	ActionDetached = "detached"
	ActionError    = "error"
)

// Action is a frame sent by the client.
type Action struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

// Reply acknowledges an Action.
type Reply struct {
	Action  string `json:"action"`
	Channel string `json:"channel,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Client struct {
	ID         string
	capability map[string]struct{}
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	channels   map[string]struct{} // guarded by hub.mu
}

func NewClient(hub *Hub, conn *websocket.Conn, id string, capability []string) *Client {
	caps := make(map[string]struct{}, len(capability))
	for _, c := range capability {
		caps[c] = struct{}{}
	}
	return &Client{
		ID:         id,
		capability: caps,
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		channels:   make(map[string]struct{}),
	}
}

func (c *Client) Allowed(channel string) bool {
	if channel == "" {
		return false
	}
	if _, ok := c.capability[AnyChannel]; ok {
		return true
	}
	_, ok := c.capability[channel]
	return ok
}

// Serve registers the client and pumps frames until the connection closes.
func (c *Client) Serve() {
	c.hub.Register(c)
	go c.writePump()
	c.readPump()
}

func (c *Client) handle(a Action) Reply {
	switch a.Action {
	case ActionAttach:
		if !c.hub.Attach(c, a.Channel) {
			return Reply{Action: ActionError, Channel: a.Channel, Error: "channel not permitted"}
		}
		return Reply{Action: ActionAttached, Channel: a.Channel}
	case ActionDetach:
		c.hub.Detach(c, a.Channel)
		return Reply{Action: ActionDetached, Channel: a.Channel}
	default:
		return Reply{Action: ActionError, Error: "unknown action " + a.Action}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var a Action
		if err := c.conn.ReadJSON(&a); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warnf("read error from %s: %v", c.ID, err)
			}
			return
		}
		payload, err := json.Marshal(c.handle(a))
		if err != nil {
			continue
		}
		if !c.hub.enqueue(c, payload) {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.hub.log.Warnf("write error to %s: %v", c.ID, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
