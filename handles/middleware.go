package handles

import (
	"net/http"
	"strings"

	"huddle/realtime"
	"huddle/session"

	"github.com/labstack/echo/v4"
)

const (
	sessionKey = "session"
	claimsKey  = "realtime_claims"
)

// LoadSession decodes the session cookie, if any, into the request context.
func (h *Handler) LoadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s, err := h.Sessions.Load(c.Request()); err == nil {
			c.Set(sessionKey, s)
		}
		return next(c)
	}
}

// currentSession returns the request's session or nil.
func currentSession(c echo.Context) *session.Data {
	s, _ := c.Get(sessionKey).(*session.Data)
	return s
}

// RequireUser rejects requests whose session carries no username.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s := currentSession(c); s == nil || s.Username == "" {
			return c.JSON(http.StatusUnauthorized, nil)
		}
		return next(c)
	}
}

// TokenAuth validates a realtime token passed as a bearer header or as the
// access_token query parameter and stores its claims in the context.
func TokenAuth(issuer *realtime.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := c.QueryParam("access_token")
			if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
				tokenString = strings.TrimPrefix(authHeader, "Bearer ")
				if tokenString == authHeader {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
				}
			}
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			claims, err := issuer.Parse(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}
