package chat

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"huddle/database"
	"huddle/realtime"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recorder struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recorder) Publish(_ context.Context, ev realtime.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, ev := range r.events {
		names[i] = ev.Name
	}
	return names
}

// setupTestDB creates a migrated SQLite database in a temp dir.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "chat.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *recorder) {
	t.Helper()
	lg := log.New("test")
	lg.SetLevel(log.OFF)
	rec := &recorder{}
	return NewService(setupTestDB(t), rec, lg), rec
}

// withMember creates username and makes it a member of channel.
func withMember(t *testing.T, s *Service, channel, username string) {
	t.Helper()
	ctx := context.Background()
	_, err := s.EnsureUser(ctx, username)
	require.NoError(t, err)
	_, _, err = s.AttachMember(ctx, channel, username)
	require.NoError(t, err)
}
