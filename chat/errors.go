package chat

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrChannelNotFound   = errors.New("channel not found")
	ErrMessageNotFound   = errors.New("message not found")
	ErrReactionNotFound  = errors.New("reaction not found")
	ErrNotMember         = errors.New("not a member of this channel")
	ErrForbidden         = errors.New("only the author can do that")
	ErrInvalidContent    = errors.New("invalid message content")
	ErrInvalidChannel    = errors.New("invalid channel name")
	ErrInvalidReaction   = errors.New("invalid reaction")
	ErrUsernameExhausted = errors.New("could not find a free username")
)
