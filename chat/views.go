package chat

import (
	"time"

	"huddle/models"
)

type MessageView struct {
	ID        string     `json:"id"`
	Channel   string     `json:"channel"`
	ClientID  string     `json:"client_id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	Reactions Reactions  `json:"reactions"`
	Color     string     `json:"color"`
	// Editable is true when the viewer the view was built for is the author.
	Editable bool `json:"editable"`
}

func newMessageView(m *models.Message, channel, viewer string) MessageView {
	v := MessageView{
		ID:        m.ID,
		Channel:   channel,
		ClientID:  m.ClientID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		EditedAt:  m.EditedAt,
		Reactions: Aggregate(m.Reactions),
		Color:     UserColor(m.ClientID),
	}
	v.Editable = CanModify(viewer, v)
	return v
}
