package chat

import "context"

// MessageSender is the part of a conversation the composer writes to.
type MessageSender interface {
	Send(ctx context.Context, content string) (*MessageView, error)
	Edit(ctx context.Context, messageID, content string) (*MessageView, error)
}

// Composer holds the message input's state: which message, if any, is being
// edited.
type Composer struct {
	editingID string
}

func (c *Composer) BeginEdit(messageID string) {
	c.editingID = messageID
}

func (c *Composer) Clear() {
	c.editingID = ""
}

func (c *Composer) Editing() (string, bool) {
	return c.editingID, c.editingID != ""
}

// InputContent is the draft to prefill while editing: the content of the
// edited message if it is among messages.
func (c *Composer) InputContent(messages []MessageView) (string, bool) {
	if c.editingID == "" {
		return "", false
	}
	for _, m := range messages {
		if m.ID == c.editingID {
			return m.Content, true
		}
	}
	return "", false
}

// Submit edits the message being edited, or sends a new one when nothing is.
// A successful edit ends editing.
func (c *Composer) Submit(ctx context.Context, conv MessageSender, content string) (*MessageView, error) {
	if c.editingID == "" {
		return conv.Send(ctx, content)
	}
	view, err := conv.Edit(ctx, c.editingID, content)
	if err != nil {
		return nil, err
	}
	c.Clear()
	return view, nil
}
