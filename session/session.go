// Package session keeps the browser's identity in a signed cookie: the
// username and the channel the browser last chose.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "huddle-session"

// ErrNoSession is returned when the request carries no valid session cookie.
var ErrNoSession = errors.New("no session")

type Data struct {
	Username   string `json:"username"`
	ChannelRef string `json:"channelRef,omitempty"`
}

type claims struct {
	Username   string `json:"username"`
	ChannelRef string `json:"channel_ref,omitempty"`
	jwt.RegisteredClaims
}

type Options struct {
	CookieName string
	Secret     string
	TTL        time.Duration
	Secure     bool
}

type Store struct {
	name   string
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewStore(opts Options) *Store {
	return &Store{
		name:   opts.CookieName,
		secret: []byte(opts.Secret),
		ttl:    opts.TTL,
		secure: opts.Secure,
		now:    time.Now,
	}
}

// Load decodes the session cookie. A missing, tampered or expired cookie
// yields ErrNoSession.
func (s *Store) Load(r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(s.name)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}
	token, err := jwt.ParseWithClaims(
		cookie.Value,
		&claims{},
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, ErrNoSession
	}
	return &Data{Username: c.Username, ChannelRef: c.ChannelRef}, nil
}

// Save signs the session and writes it back as a cookie, sliding its expiry.
func (s *Store) Save(w http.ResponseWriter, d *Data) error {
	now := s.now()
	expires := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username:   d.Username,
		ChannelRef: d.ChannelRef,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	value, err := token.SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy expires the session cookie.
func (s *Store) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
