// Package chat holds the channel, membership, message and reaction logic.
// Every mutation is persisted through gorm and then announced on the
// realtime publisher.
package chat

import (
	"context"

	"huddle/realtime"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type Publisher interface {
	Publish(ctx context.Context, ev realtime.Event) error
}

type Service struct {
	db       *gorm.DB
	pub      Publisher
	log      *log.Logger
	username func() (string, error)
}

// NewService wires the service. pub may be nil, in which case no events are
// published.
func NewService(db *gorm.DB, pub Publisher, logger *log.Logger) *Service {
	return &Service{db: db, pub: pub, log: logger, username: GenerateUsername}
}

// publish announces an event. Failures are logged; the write that caused the
// event has already been committed.
func (s *Service) publish(ctx context.Context, name, channel, clientID string, data any) {
	if s.pub == nil {
		return
	}
	ev, err := realtime.NewEvent(name, channel, clientID, data)
	if err != nil {
		s.log.Errorf("build %s event: %v", name, err)
		return
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Errorf("publish %s on %s: %v", name, channel, err)
	}
}
