package realtime

import (
	"encoding/json"
	"time"
)

const (
	EventMessageCreated  = "message.created"
	EventMessageUpdated  = "message.updated"
	EventMessageDeleted  = "message.deleted"
	EventReactionAdded   = "reaction.added"
	EventReactionRemoved = "reaction.removed"
	EventMemberJoined    = "member.joined"
	EventMemberLeft      = "member.left"
)

// Event is what travels through the broker and out to websocket clients.
type Event struct {
	Name      string          `json:"name"`
	Channel   string          `json:"channel"`
	ClientID  string          `json:"clientId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent marshals data into an event stamped with the current time.
func NewEvent(name, channel, clientID string, data any) (Event, error) {
	ev := Event{Name: name, Channel: channel, ClientID: clientID, Timestamp: time.Now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Event{}, err
		}
		ev.Data = raw
	}
	return ev, nil
}
