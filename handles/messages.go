package handles

import (
	"net/http"
	"strconv"

	"huddle/chat"

	"github.com/labstack/echo/v4"
)

type messageRequest struct {
	Content   string `json:"content"`
	EditingID string `json:"editingId"`
}

type reactionRequest struct {
	Unicode string `json:"unicode"`
}

type historyResponse struct {
	Messages []chat.MessageView `json:"messages"`
	// Draft is the content of the message named by ?editing=.
	Draft *string `json:"draft,omitempty"`
}

func (h *Handler) conversation(c echo.Context) *chat.Conversation {
	return h.Chat.Conversation(channelParam(c), currentSession(c).Username)
}

func (h *Handler) ListMessages(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	views, err := h.conversation(c).History(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	resp := historyResponse{Messages: views}
	if editing := c.QueryParam("editing"); editing != "" {
		var composer chat.Composer
		composer.BeginEdit(editing)
		if draft, ok := composer.InputContent(views); ok {
			resp.Draft = &draft
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// PostMessage sends a message, or edits editingId when the input is in edit
// mode.
func (h *Handler) PostMessage(c echo.Context) error {
	var req messageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	var composer chat.Composer
	if req.EditingID != "" {
		composer.BeginEdit(req.EditingID)
	}
	view, err := composer.Submit(c.Request().Context(), h.conversation(c), req.Content)
	if err != nil {
		return httpError(err)
	}
	if req.EditingID != "" {
		return c.JSON(http.StatusOK, view)
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *Handler) EditMessage(c echo.Context) error {
	var req messageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	view, err := h.conversation(c).Edit(c.Request().Context(), c.Param("id"), req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) DeleteMessage(c echo.Context) error {
	if err := h.conversation(c).Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddReaction(c echo.Context) error {
	var req reactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	view, err := h.conversation(c).AddReaction(c.Request().Context(), c.Param("id"), req.Unicode)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) RemoveReaction(c echo.Context) error {
	view, err := h.Chat.RemoveReaction(c.Request().Context(), c.Param("id"), currentSession(c).Username)
	if err != nil {
		return httpError(err)
	}
	if view == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, view)
}
