package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"huddle/models"
	"huddle/realtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxContentLength    = 2000
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

type deletedPayload struct {
	ID string `json:"id"`
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > MaxContentLength {
		return "", ErrInvalidContent
	}
	return content, nil
}

func (s *Service) findMessage(ctx context.Context, channelID uint, id string) (*models.Message, error) {
	var msg models.Message
	err := s.db.WithContext(ctx).Preload("Reactions").
		Where("id = ? AND channel_id = ?", id, channelID).
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return &msg, nil
}

// History returns up to limit of the newest messages in the channel, oldest
// first, rendered for viewer. limit defaults to 50 and is capped at 200.
func (s *Service) History(ctx context.Context, channel, viewer string, limit int) ([]MessageView, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	ch, _, err := s.membership(ctx, channel, viewer)
	if err != nil {
		return nil, err
	}

	var msgs []models.Message
	if err := s.db.WithContext(ctx).Preload("Reactions").
		Where("channel_id = ?", ch.ID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	views := make([]MessageView, len(msgs))
	for i := range msgs {
		views[len(msgs)-1-i] = newMessageView(&msgs[i], ch.Name, viewer)
	}
	return views, nil
}

func (s *Service) Send(ctx context.Context, channel, author, content string) (*MessageView, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	ch, _, err := s.membership(ctx, channel, author)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	msg := models.Message{ID: id.String(), ChannelID: ch.ID, ClientID: author, Content: content}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	view := newMessageView(&msg, ch.Name, author)
	s.publish(ctx, realtime.EventMessageCreated, ch.Name, author, view)
	return &view, nil
}

func (s *Service) Edit(ctx context.Context, channel, messageID, author, content string) (*MessageView, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	ch, msg, err := s.authoredMessage(ctx, channel, messageID, author)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(msg).Updates(map[string]any{
		"content":   content,
		"edited_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("edit message: %w", err)
	}
	msg.Content = content
	msg.EditedAt = &now
	view := newMessageView(msg, ch.Name, author)
	s.publish(ctx, realtime.EventMessageUpdated, ch.Name, author, view)
	return &view, nil
}

func (s *Service) Delete(ctx context.Context, channel, messageID, author string) error {
	ch, msg, err := s.authoredMessage(ctx, channel, messageID, author)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(msg).Error; err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	s.publish(ctx, realtime.EventMessageDeleted, ch.Name, author, deletedPayload{ID: msg.ID})
	return nil
}

// authoredMessage loads a message and checks author wrote it.
func (s *Service) authoredMessage(ctx context.Context, channel, messageID, author string) (*models.Channel, *models.Message, error) {
	ch, _, err := s.membership(ctx, channel, author)
	if err != nil {
		return nil, nil, err
	}
	msg, err := s.findMessage(ctx, ch.ID, messageID)
	if err != nil {
		return nil, nil, err
	}
	if !CanModify(author, newMessageView(msg, ch.Name, author)) {
		return nil, nil, ErrForbidden
	}
	return ch, msg, nil
}

// Conversation binds the service to one channel and user.
func (s *Service) Conversation(channel, username string) *Conversation {
	return &Conversation{svc: s, channel: channel, username: username}
}

type Conversation struct {
	svc      *Service
	channel  string
	username string
}

func (c *Conversation) History(ctx context.Context, limit int) ([]MessageView, error) {
	return c.svc.History(ctx, c.channel, c.username, limit)
}

func (c *Conversation) Send(ctx context.Context, content string) (*MessageView, error) {
	return c.svc.Send(ctx, c.channel, c.username, content)
}

func (c *Conversation) Edit(ctx context.Context, messageID, content string) (*MessageView, error) {
	return c.svc.Edit(ctx, c.channel, messageID, c.username, content)
}

func (c *Conversation) Delete(ctx context.Context, messageID string) error {
	return c.svc.Delete(ctx, c.channel, messageID, c.username)
}

func (c *Conversation) AddReaction(ctx context.Context, messageID, unicode string) (*MessageView, error) {
	return c.svc.AddReaction(ctx, c.channel, messageID, c.username, unicode)
}

func (c *Conversation) RemoveReaction(ctx context.Context, reactionID string) (*MessageView, error) {
	return c.svc.RemoveReaction(ctx, reactionID, c.username)
}
