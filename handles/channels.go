package handles

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// channelParam returns the :name path parameter. echo routes on the decoded
// path unless the request carries a RawPath, in which case the parameter is
// still escaped.
func channelParam(c echo.Context) string {
	raw := c.Param("name")
	if c.Request().URL.RawPath == "" {
		return raw
	}
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// GetChannel returns the channel and makes the caller a member on the first
// visit.
func (h *Handler) GetChannel(c echo.Context) error {
	s := currentSession(c)
	ch, joined, err := h.Chat.AttachMember(c.Request().Context(), channelParam(c), s.Username)
	if err != nil {
		return httpError(err)
	}
	if joined {
		h.Log.Infof("%s joined channel %s", s.Username, ch.Name)
	}
	return c.JSON(http.StatusOK, ch)
}

// ListChannels lists the channels the caller has joined.
func (h *Handler) ListChannels(c echo.Context) error {
	s := currentSession(c)
	channels, err := h.Chat.JoinedChannels(c.Request().Context(), s.Username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"channels": channels})
}

func (h *Handler) ListMembers(c echo.Context) error {
	members, err := h.Chat.Members(c.Request().Context(), channelParam(c))
	if err != nil {
		return httpError(err)
	}
	usernames := make([]string, 0, len(members))
	for _, m := range members {
		usernames = append(usernames, m.Username)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"members": usernames})
}

// LeaveChannel removes the caller from the channel.
func (h *Handler) LeaveChannel(c echo.Context) error {
	s := currentSession(c)
	if err := h.Chat.Leave(c.Request().Context(), channelParam(c), s.Username); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Presence reports who is connected to the channel right now.
func (h *Handler) Presence(c echo.Context) error {
	name := channelParam(c)
	if _, err := h.Chat.GetChannel(c.Request().Context(), name); err != nil {
		return httpError(err)
	}
	online := h.Hub.Presence(name)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"channel": name,
		"count":   len(online),
		"members": online,
	})
}
