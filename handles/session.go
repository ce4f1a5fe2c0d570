package handles

import (
	"errors"
	"net/http"

	"huddle/chat"
	"huddle/session"

	"github.com/labstack/echo/v4"
)

type sessionRequest struct {
	ChannelRef *string `json:"channelRef"`
}

// GetSession returns the current session when its user still exists.
func (h *Handler) GetSession(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return c.JSON(http.StatusUnauthorized, nil)
	}
	if _, err := h.Chat.FindUser(c.Request().Context(), s.Username); err != nil {
		if errors.Is(err, chat.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, nil)
		}
		return httpError(err)
	}
	return c.JSON(http.StatusOK, s)
}

// PostSession creates the session and its user when absent. The body may
// set the channel reference.
func (h *Handler) PostSession(c echo.Context) error {
	ctx := c.Request().Context()
	var req sessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	s := currentSession(c)
	if s == nil {
		s = &session.Data{}
	}
	if req.ChannelRef != nil {
		if *req.ChannelRef != "" {
			if err := chat.ValidateChannelName(*req.ChannelRef); err != nil {
				return httpError(err)
			}
		}
		s.ChannelRef = *req.ChannelRef
	}

	if s.Username == "" {
		username, err := h.Chat.ClaimUsername(ctx)
		if err != nil {
			return httpError(err)
		}
		s.Username = username
	} else if _, err := h.Chat.EnsureUser(ctx, s.Username); err != nil {
		return httpError(err)
	}

	if err := h.Sessions.Save(c.Response(), s); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteSession drops the user, its memberships and the cookie.
func (h *Handler) DeleteSession(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return c.JSON(http.StatusUnauthorized, nil)
	}
	if err := h.Chat.DeleteUser(c.Request().Context(), s.Username); err != nil && !errors.Is(err, chat.ErrUserNotFound) {
		return httpError(err)
	}
	h.Sessions.Destroy(c.Response())
	return c.NoContent(http.StatusNoContent)
}
