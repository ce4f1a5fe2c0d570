package handles

import (
	"errors"
	"net/http"

	"huddle/chat"

	"github.com/labstack/echo/v4"
)

// httpError maps chat errors onto HTTP statuses. Anything unrecognised is a
// 500 with the cause kept for the request log.
func httpError(err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, chat.ErrInvalidContent),
		errors.Is(err, chat.ErrInvalidChannel),
		errors.Is(err, chat.ErrInvalidReaction):
		status = http.StatusBadRequest
	case errors.Is(err, chat.ErrNotMember),
		errors.Is(err, chat.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, chat.ErrUserNotFound),
		errors.Is(err, chat.ErrChannelNotFound),
		errors.Is(err, chat.ErrMessageNotFound),
		errors.Is(err, chat.ErrReactionNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		return echo.NewHTTPError(status, http.StatusText(status)).SetInternal(err)
	}
	return echo.NewHTTPError(status, err.Error())
}
