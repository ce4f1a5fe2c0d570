package handles

import (
	"huddle/chat"
	"huddle/realtime"
	"huddle/session"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Handler carries the dependencies shared by the route handlers.
type Handler struct {
	Chat     *chat.Service
	Sessions *session.Store
	Tokens   *realtime.TokenIssuer
	Hub      *realtime.Hub
	DB       *gorm.DB
	Redis    *redis.Client // nil when the local broker is used
	Log      *log.Logger
}
