package database

import (
	"context"
	"huddle/config"
	"huddle/models"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DatabaseDriver: "sqlite",
		DatabaseDSN:    filepath.Join(t.TempDir(), "chat.db"),
	}
}

func TestInitDatabase(t *testing.T) {
	db, err := InitDatabase(testConfig(t))
	if err != nil {
		t.Fatalf("InitDatabase() error = %v", err)
	}
	for _, table := range []string{"users", "channels", "user_channels", "messages", "reactions"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table %s", table)
		}
	}
}

func TestInitDatabaseUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseDriver = "oracle"
	if _, err := InitDatabase(cfg); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestUsernameIsUnique(t *testing.T) {
	db, err := InitDatabase(testConfig(t))
	if err != nil {
		t.Fatalf("InitDatabase() error = %v", err)
	}
	if err := db.Create(&models.User{Username: "caoyan"}).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if err := db.Create(&models.User{Username: "caoyan"}).Error; err == nil {
		t.Error("expected unique constraint violation on duplicate username")
	}
}

func TestMembershipIsUnique(t *testing.T) {
	db, err := InitDatabase(testConfig(t))
	if err != nil {
		t.Fatalf("InitDatabase() error = %v", err)
	}
	user := models.User{Username: "caoyan"}
	channel := models.Channel{Name: "general"}
	db.Create(&user)
	db.Create(&channel)

	if err := db.Create(&models.UserChannel{UserID: user.ID, ChannelID: channel.ID}).Error; err != nil {
		t.Fatalf("insert membership: %v", err)
	}
	if err := db.Create(&models.UserChannel{UserID: user.ID, ChannelID: channel.ID}).Error; err == nil {
		t.Error("expected duplicate membership to be rejected")
	}

	var members []models.User
	if err := db.Model(&channel).Association("Users").Find(&members); err != nil {
		t.Fatalf("find members: %v", err)
	}
	if len(members) != 1 || members[0].Username != "caoyan" {
		t.Errorf("unexpected members %+v", members)
	}
}

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{RedisAddr: mr.Addr()}

	rdb, err := InitRedis(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitRedis() error = %v", err)
	}
	defer rdb.Close()
	if err := rdb.Set(context.Background(), "huddle:ping", "pong", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("huddle:ping"); got != "pong" {
		t.Errorf("expected pong, got %q", got)
	}

	mr.Close()
	if _, err := InitRedis(context.Background(), cfg); err == nil {
		t.Error("expected error when redis is down")
	}
}
