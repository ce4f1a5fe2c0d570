package realtime

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "huddle-realtime"

var ErrInvalidToken = errors.New("invalid realtime token")

type TokenClaims struct {
	ClientID   string   `json:"clientId"`
	Capability []string `json:"capability"`
	jwt.RegisteredClaims
}

// TokenDetails is handed to the browser by the auth endpoint. Times are unix
// milliseconds.
type TokenDetails struct {
	Token      string   `json:"token"`
	ClientID   string   `json:"clientId"`
	Capability []string `json:"capability"`
	Issued     int64    `json:"issued"`
	Expires    int64    `json:"expires"`
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(clientID string, capability []string) (TokenDetails, error) {
	if clientID == "" {
		return TokenDetails{}, errors.New("client id is required")
	}
	if capability == nil {
		capability = []string{}
	}
	now := t.now()
	expires := now.Add(t.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		ClientID:   clientID,
		Capability: capability,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return TokenDetails{}, fmt.Errorf("sign token: %w", err)
	}
	return TokenDetails{
		Token:      signed,
		ClientID:   clientID,
		Capability: capability,
		Issued:     now.UnixMilli(),
		Expires:    expires.UnixMilli(),
	}, nil
}

func (t *TokenIssuer) Parse(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&TokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return t.secret, nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.ClientID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
