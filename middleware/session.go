package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-Token"
	SessionKey    = "sessionId"
)

type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionTokens signs and verifies the HS256 tokens that name a session.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionTokens(secret string, ttl time.Duration) (*SessionTokens, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	return &SessionTokens{secret: []byte(secret), ttl: ttl}, nil
}

// Mint creates a token for a fresh session id.
func (t *SessionTokens) Mint() (string, string, error) {
	id := uuid.NewString()
	now := time.Now()
	claims := &SessionClaims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return id, signed, nil
}

// Verify returns the session id of a valid token.
func (t *SessionTokens) Verify(token string) (string, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", errors.New("invalid session token")
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return "", fmt.Errorf("invalid session id: %w", err)
	}
	return claims.SessionID, nil
}

func tokenFromRequest(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(c.GetHeader(SessionHeader))
}

// SessionMiddleware puts the session id in the context, minting a new session when the
// request carries no valid token. The token always goes back in X-Session-Token.
func SessionMiddleware(tokens *SessionTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		id, err := tokens.Verify(token)
		if err != nil {
			id, token, err = tokens.Mint()
			if err != nil {
				_ = c.Error(err)
				c.Abort()
				return
			}
		}

		c.Set(SessionKey, id)
		c.Header(SessionHeader, token)
		c.Next()
	}
}
