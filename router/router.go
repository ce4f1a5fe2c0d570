package router

import (
	"huddle/handles"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"
)

// NewServer builds the echo server with logging, recovery, sessions and all
// routes bound. rateLimit is requests per second per client IP on /api.
func NewServer(h *handles.Handler, rateLimit float64) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.Logger = h.Log
	server.Renderer = handles.NewTemplates()

	server.Use(middleware.Recover())
	server.Use(RequestLogger(h.Log))
	server.Use(h.LoadSession)

	BindRouter(server, h, rateLimit)
	return server
}

func BindRouter(server *echo.Echo, h *handles.Handler, rateLimit float64) {
	server.GET("/healthz", h.Health)
	server.GET("/ws", h.HandleWebSocket, handles.TokenAuth(h.Tokens))

	api := server.Group("/api", middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(rateLimit))))
	api.GET("/session", h.GetSession)
	api.POST("/session", h.PostSession)
	api.DELETE("/session", h.DeleteSession)

	authed := api.Group("", handles.RequireUser)
	authed.GET("/auth", h.Auth)
	authed.GET("/channels", h.ListChannels)
	authed.GET("/channels/:name", h.GetChannel)
	authed.GET("/channels/:name/members", h.ListMembers)
	authed.DELETE("/channels/:name/members/me", h.LeaveChannel)
	authed.GET("/channels/:name/presence", h.Presence)
	authed.GET("/channels/:name/messages", h.ListMessages)
	authed.POST("/channels/:name/messages", h.PostMessage)
	authed.PATCH("/channels/:name/messages/:id", h.EditMessage)
	authed.DELETE("/channels/:name/messages/:id", h.DeleteMessage)
	authed.POST("/channels/:name/messages/:id/reactions", h.AddReaction)
	authed.DELETE("/reactions/:id", h.RemoveReaction)

	// Pages last so the static routes above win.
	server.GET("/", h.IndexPage)
	server.GET("/:name", h.ChannelPage)
}

// RequestLogger writes one line per request to logger, at error level when
// the handler failed.
func RequestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Errorf("%s %s %d %s: %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			logger.Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	})
}
