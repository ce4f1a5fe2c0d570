package handles

import (
	"net/http"

	"huddle/realtime"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Connections are authenticated by token, not by cookie.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades a token-authenticated request and serves the
// realtime client until it disconnects.
func (h *Handler) HandleWebSocket(c echo.Context) error {
	claims, ok := c.Get(claimsKey).(*realtime.TokenClaims)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.Log.Warnf("websocket upgrade error: %v", err)
		return nil
	}
	realtime.NewClient(h.Hub, ws, claims.ClientID, claims.Capability).Serve()
	return nil
}
