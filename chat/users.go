package chat

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"huddle/models"
	"huddle/realtime"

	nanoid "github.com/jaevor/go-nanoid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	usernameAttempts = 5
	usernameAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	usernameSuffix   = 6
)

var (
	adjectives = []string{
		"amber", "brave", "calm", "clever", "cosmic", "dusty", "eager", "fuzzy",
		"gentle", "happy", "icy", "jolly", "lucky", "mellow", "nimble", "quiet",
		"rapid", "shy", "sunny", "witty",
	}
	animals = []string{
		"badger", "crane", "dingo", "falcon", "gecko", "heron", "ibex", "koala",
		"lemur", "marten", "newt", "otter", "panda", "quokka", "raven", "seal",
		"tapir", "walrus", "yak", "zebra",
	}
)

// GenerateUsername returns a name such as "brave-otter-4k2q9z".
func GenerateUsername() (string, error) {
	suffix, err := nanoid.CustomASCII(usernameAlphabet, usernameSuffix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s",
		adjectives[rand.Intn(len(adjectives))],
		animals[rand.Intn(len(animals))],
		suffix(),
	), nil
}

// ClaimUsername generates a fresh username and creates its user row. A
// generated name that is already taken is never reused.
func (s *Service) ClaimUsername(ctx context.Context) (string, error) {
	for i := 0; i < usernameAttempts; i++ {
		name, err := s.username()
		if err != nil {
			return "", fmt.Errorf("generate username: %w", err)
		}
		created, err := s.EnsureUser(ctx, name)
		if err != nil {
			return "", err
		}
		if created {
			return name, nil
		}
		s.log.Warnf("generated username %s already taken, retrying", name)
	}
	return "", ErrUsernameExhausted
}

// EnsureUser creates the user row when it does not exist yet and reports
// whether it did.
func (s *Service) EnsureUser(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, ErrUserNotFound
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(&models.User{Username: username})
	if res.Error != nil {
		return false, fmt.Errorf("create user: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Service) FindUser(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, ErrUserNotFound
	}
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// DeleteUser removes the user together with its memberships.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	user, err := s.FindUser(ctx, username)
	if err != nil {
		return err
	}
	channels, err := s.JoinedChannels(ctx, username)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserChannel{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	for _, ch := range channels {
		s.publish(ctx, realtime.EventMemberLeft, ch.Name, username, memberPayload{Username: username})
	}
	return nil
}
