package handles

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"huddle/chat"
	"huddle/realtime"
	"huddle/session"

	"github.com/labstack/echo/v4"
)

func TestHTTPError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{chat.ErrInvalidContent, http.StatusBadRequest},
		{fmt.Errorf("channel %q: %w", " x", chat.ErrInvalidChannel), http.StatusBadRequest},
		{chat.ErrInvalidReaction, http.StatusBadRequest},
		{chat.ErrNotMember, http.StatusForbidden},
		{fmt.Errorf("message 1: %w", chat.ErrForbidden), http.StatusForbidden},
		{chat.ErrChannelNotFound, http.StatusNotFound},
		{chat.ErrMessageNotFound, http.StatusNotFound},
		{chat.ErrReactionNotFound, http.StatusNotFound},
		{chat.ErrUserNotFound, http.StatusNotFound},
		{errors.New("database is locked"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		he, ok := httpError(tt.err).(*echo.HTTPError)
		if !ok {
			t.Fatalf("%v: expected *echo.HTTPError", tt.err)
		}
		if he.Code != tt.status {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.status, he.Code)
		}
	}

	he := httpError(errors.New("boom")).(*echo.HTTPError)
	if he.Internal == nil || he.Message != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("500s must hide the cause and keep it internal, got %+v", he)
	}
}

func TestTokenAuth(t *testing.T) {
	issuer := realtime.NewTokenIssuer("secret", time.Hour)
	details, err := issuer.Issue("brave-otter-4k2q9z", []string{"general"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	foreign, _ := realtime.NewTokenIssuer("other", time.Hour).Issue("mallory", nil)

	e := echo.New()
	handler := TokenAuth(issuer)(func(c echo.Context) error {
		claims := c.Get(claimsKey).(*realtime.TokenClaims)
		return c.String(http.StatusOK, claims.ClientID)
	})

	tests := []struct {
		name   string
		query  string
		header string
		status int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"bad header format", "", "Token " + details.Token, http.StatusUnauthorized},
		{"foreign signature", "", "Bearer " + foreign.Token, http.StatusUnauthorized},
		{"bearer header", "", "Bearer " + details.Token, http.StatusOK},
		{"query parameter", "?access_token=" + details.Token, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler(c)
			status := rec.Code
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			if status != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, status)
			}
			if status == http.StatusOK && rec.Body.String() != "brave-otter-4k2q9z" {
				t.Errorf("expected claims in context, got %q", rec.Body.String())
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	e := echo.New()
	handler := RequireUser(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	tests := []struct {
		name    string
		session *session.Data
		status  int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"session without username", &session.Data{ChannelRef: "general"}, http.StatusUnauthorized},
		{"signed in", &session.Data{Username: "bob"}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/channels", nil), rec)
			if tt.session != nil {
				c.Set(sessionKey, tt.session)
			}
			if err := handler(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			if tt.status == http.StatusUnauthorized && rec.Body.String() != "null\n" {
				t.Errorf("expected a null body, got %q", rec.Body.String())
			}
		})
	}
}

func TestLoadSession(t *testing.T) {
	store := session.NewStore(session.Options{CookieName: "sid", Secret: "secret", TTL: time.Hour})
	h := &Handler{Sessions: store}

	saved := httptest.NewRecorder()
	if err := store.Save(saved, &session.Data{Username: "alice", ChannelRef: "general"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range saved.Result().Cookies() {
		req.AddCookie(c)
	}
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())

	var got *session.Data
	err := h.LoadSession(func(c echo.Context) error {
		got = currentSession(c)
		return nil
	})(c)
	if err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if got == nil || got.Username != "alice" || got.ChannelRef != "general" {
		t.Errorf("unexpected session %+v", got)
	}
}

func TestChannelParam(t *testing.T) {
	e := echo.New()
	e.GET("/channels/:name", func(c echo.Context) error {
		return c.String(http.StatusOK, channelParam(c))
	})

	tests := []struct {
		path string
		want string
	}{
		{"/channels/general", "general"},
		{"/channels/team%20chat", "team chat"},
		{"/channels/x%2541", "x%41"},
		{"/channels/a%2Fb", "a/b"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tt.path, rec.Code)
		}
		if got := rec.Body.String(); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.path, tt.want, got)
		}
	}
}
