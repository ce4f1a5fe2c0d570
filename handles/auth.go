package handles

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Auth issues a realtime token for the session's user, scoped to the
// channels it has joined.
func (h *Handler) Auth(c echo.Context) error {
	s := currentSession(c)
	channels, err := h.Chat.JoinedChannels(c.Request().Context(), s.Username)
	if err != nil {
		return httpError(err)
	}
	capability := make([]string, 0, len(channels))
	for _, ch := range channels {
		capability = append(capability, ch.Name)
	}
	details, err := h.Tokens.Issue(s.Username, capability)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, details)
}
