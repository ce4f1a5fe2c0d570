package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"huddle/models"
	"huddle/realtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxReactionBytes = 32
	maxLatest        = 20
)

type ReactionView struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Unicode  string `json:"unicode"`
}

// Reactions is the aggregated reaction state of one message.
type Reactions struct {
	Counts map[string]int `json:"counts"`
	// Latest holds the most recent reactions, newest first.
	Latest []ReactionView `json:"latest"`
}

func Aggregate(rs []models.Reaction) Reactions {
	agg := Reactions{Counts: make(map[string]int), Latest: []ReactionView{}}
	sorted := make([]models.Reaction, len(rs))
	copy(sorted, rs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	for _, r := range sorted {
		agg.Counts[r.Unicode]++
		if len(agg.Latest) < maxLatest {
			agg.Latest = append(agg.Latest, ReactionView{ID: r.ID, ClientID: r.ClientID, Unicode: r.Unicode})
		}
	}
	return agg
}

// HasReactions reports whether any reaction on m has a positive count.
func HasReactions(m MessageView) bool {
	for _, n := range m.Reactions.Counts {
		if n > 0 {
			return true
		}
	}
	return false
}

// AddReaction adds author's unicode reaction to a message. Adding the same
// reaction twice is a no-op.
func (s *Service) AddReaction(ctx context.Context, channel, messageID, author, unicode string) (*MessageView, error) {
	unicode = strings.TrimSpace(unicode)
	if unicode == "" || len(unicode) > maxReactionBytes {
		return nil, ErrInvalidReaction
	}
	ch, _, err := s.membership(ctx, channel, author)
	if err != nil {
		return nil, err
	}
	msg, err := s.findMessage(ctx, ch.ID, messageID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Reaction{ID: id.String(), MessageID: msg.ID, ClientID: author, Unicode: unicode})
	if res.Error != nil {
		return nil, fmt.Errorf("add reaction: %w", res.Error)
	}

	msg, err = s.findMessage(ctx, ch.ID, messageID)
	if err != nil {
		return nil, err
	}
	view := newMessageView(msg, ch.Name, author)
	if res.RowsAffected > 0 {
		s.publish(ctx, realtime.EventReactionAdded, ch.Name, author, view)
	}
	return &view, nil
}

// RemoveReaction deletes a reaction. Only the user who added it, while still
// a member of the message's channel, may remove it.
func (s *Service) RemoveReaction(ctx context.Context, reactionID, author string) (*MessageView, error) {
	var reaction models.Reaction
	if err := s.db.WithContext(ctx).Where("id = ?", reactionID).First(&reaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReactionNotFound
		}
		return nil, fmt.Errorf("find reaction: %w", err)
	}
	if reaction.ClientID != author {
		return nil, ErrForbidden
	}

	var msg models.Message
	if err := s.db.WithContext(ctx).Unscoped().Preload("Channel").Where("id = ?", reaction.MessageID).First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	if _, _, err := s.membership(ctx, msg.Channel.Name, author); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&reaction).Error; err != nil {
		return nil, fmt.Errorf("remove reaction: %w", err)
	}
	if msg.DeletedAt.Valid {
		// The message was deleted; nobody is rendering it any more.
		return nil, nil
	}

	if err := s.db.WithContext(ctx).Where("message_id = ?", msg.ID).Find(&msg.Reactions).Error; err != nil {
		return nil, fmt.Errorf("load reactions: %w", err)
	}
	view := newMessageView(&msg, msg.Channel.Name, author)
	s.publish(ctx, realtime.EventReactionRemoved, msg.Channel.Name, author, view)
	return &view, nil
}
