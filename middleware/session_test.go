package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionEngine(t *testing.T, tokens *SessionTokens) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlerMiddleware(), SessionMiddleware(tokens))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SessionKey))
	})
	return r
}

func TestNewSessionTokens_RequiresSecret(t *testing.T) {
	_, err := NewSessionTokens("", 0)
	assert.Error(t, err)
}

func TestSessionTokens_MintVerify(t *testing.T) {
	tokens, err := NewSessionTokens("secret", time.Hour)
	require.NoError(t, err)

	id, token, err := tokens.Mint()
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	got, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	other, _ := NewSessionTokens("different", time.Hour)
	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestSessionTokens_RejectsOtherAlgorithms(t *testing.T) {
	tokens, _ := NewSessionTokens("secret", 0)
	claims := &SessionClaims{SessionID: uuid.NewString()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	assert.Error(t, err)
}

func TestSessionMiddleware_MintsWhenMissing(t *testing.T) {
	tokens, _ := NewSessionTokens("secret", 0)
	r := sessionEngine(t, tokens)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, w.Code)

	token := w.Header().Get(SessionHeader)
	require.NotEmpty(t, token)
	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())
}

func TestSessionMiddleware_KeepsValidToken(t *testing.T) {
	tokens, _ := NewSessionTokens("secret", 0)
	r := sessionEngine(t, tokens)
	id, token, err := tokens.Mint()
	require.NoError(t, err)

	for _, header := range []string{"Authorization", SessionHeader} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header == "Authorization" {
			req.Header.Set(header, "Bearer "+token)
		} else {
			req.Header.Set(header, token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, id, w.Body.String(), header)
		assert.Equal(t, token, w.Header().Get(SessionHeader))
	}
}

func TestSessionMiddleware_ReplacesInvalidToken(t *testing.T) {
	tokens, _ := NewSessionTokens("secret", 0)
	r := sessionEngine(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(SessionHeader, "not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "not-a-token", w.Header().Get(SessionHeader))
	assert.NotEmpty(t, w.Body.String())
}
