package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"huddle/models"
	"huddle/realtime"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxChannelName = 128

type memberPayload struct {
	Username string `json:"username"`
}

// ValidateChannelName rejects empty names, names with surrounding
// whitespace and names longer than 128 characters.
func ValidateChannelName(name string) error {
	if name == "" || name != strings.TrimSpace(name) || utf8.RuneCountInString(name) > maxChannelName {
		return ErrInvalidChannel
	}
	return nil
}

func (s *Service) GetChannel(ctx context.Context, name string) (*models.Channel, error) {
	if err := ValidateChannelName(name); err != nil {
		return nil, err
	}
	var ch models.Channel
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&ch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, fmt.Errorf("find channel: %w", err)
	}
	return &ch, nil
}

// ensureChannel returns the named channel, creating it on first use.
func (s *Service) ensureChannel(ctx context.Context, name string) (*models.Channel, error) {
	ch, err := s.GetChannel(ctx, name)
	if !errors.Is(err, ErrChannelNotFound) {
		return ch, err
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&models.Channel{Name: name}).Error
	if err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}
	return s.GetChannel(ctx, name)
}

// AttachMember loads the channel with its member list filtered to username
// and, when that list is empty, adds the user. joined reports whether a
// membership row was written by this call. Concurrent first visits are
// settled by the join table's primary key.
func (s *Service) AttachMember(ctx context.Context, name, username string) (ch *models.Channel, joined bool, err error) {
	user, err := s.FindUser(ctx, username)
	if err != nil {
		return nil, false, err
	}
	ch, err = s.ensureChannel(ctx, name)
	if err != nil {
		return nil, false, err
	}

	var members []models.User
	if err := s.db.WithContext(ctx).Model(ch).Where("username = ?", username).Association("Users").Find(&members); err != nil {
		return nil, false, fmt.Errorf("load members: %w", err)
	}
	if len(members) > 0 {
		return ch, false, nil
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserChannel{UserID: user.ID, ChannelID: ch.ID})
	if res.Error != nil {
		return nil, false, fmt.Errorf("add member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ch, false, nil
	}
	s.publish(ctx, realtime.EventMemberJoined, ch.Name, username, memberPayload{Username: username})
	return ch, true, nil
}

func (s *Service) Members(ctx context.Context, name string) ([]models.User, error) {
	ch, err := s.GetChannel(ctx, name)
	if err != nil {
		return nil, err
	}
	var members []models.User
	if err := s.db.WithContext(ctx).Model(ch).Order("username").Association("Users").Find(&members); err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	return members, nil
}

func (s *Service) JoinedChannels(ctx context.Context, username string) ([]models.Channel, error) {
	user, err := s.FindUser(ctx, username)
	if err != nil {
		return nil, err
	}
	var channels []models.Channel
	if err := s.db.WithContext(ctx).Model(user).Order("name").Association("Channels").Find(&channels); err != nil {
		return nil, fmt.Errorf("load channels: %w", err)
	}
	return channels, nil
}

func (s *Service) Leave(ctx context.Context, name, username string) error {
	ch, user, err := s.membership(ctx, name, username)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND channel_id = ?", user.ID, ch.ID).
		Delete(&models.UserChannel{}).Error; err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	s.publish(ctx, realtime.EventMemberLeft, ch.Name, username, memberPayload{Username: username})
	return nil
}

// membership resolves the channel and user and checks the user belongs to it.
func (s *Service) membership(ctx context.Context, name, username string) (*models.Channel, *models.User, error) {
	ch, err := s.GetChannel(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.FindUser(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserChannel{}).
		Where("user_id = ? AND channel_id = ?", user.ID, ch.ID).
		Count(&count).Error; err != nil {
		return nil, nil, fmt.Errorf("check membership: %w", err)
	}
	if count == 0 {
		return nil, nil, ErrNotMember
	}
	return ch, user, nil
}
