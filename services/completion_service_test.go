package services

import (
	"RestaurantRoulette/models"
	"RestaurantRoulette/utils"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proxyServer(t *testing.T, status int, body string, seen *models.CompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProxyCompleter_ContentEnvelope(t *testing.T) {
	var seen models.CompletionRequest
	srv := proxyServer(t, http.StatusOK, `{"content":[{"type":"text","text":"{\"city\":\"Austin\"}"}]}`, &seen)

	text, err := NewProxyCompleter(srv.URL, "", time.Second).Complete(context.Background(), "hello", 1000)
	require.NoError(t, err)
	assert.Equal(t, `{"city":"Austin"}`, text)

	require.Len(t, seen.Messages, 1)
	assert.Equal(t, "user", seen.Messages[0].Role)
	assert.Equal(t, "hello", seen.Messages[0].Content)
	assert.Equal(t, 1000, seen.MaxTokens)
}

func TestProxyCompleter_BareStringEnvelope(t *testing.T) {
	srv := proxyServer(t, http.StatusOK, "\"```json\\n{\\\"neighborhoods\\\":[]}\\n```\"", nil)

	text, err := NewProxyCompleter(srv.URL, "", time.Second).Complete(context.Background(), "p", 10)
	require.NoError(t, err)
	assert.Equal(t, `{"neighborhoods":[]}`, text)
}

func TestProxyCompleter_UnexpectedShape(t *testing.T) {
	for _, body := range []string{`{"content":[]}`, `{"content":[{"type":"text","text":""}]}`, `{"choices":[]}`, `42`} {
		srv := proxyServer(t, http.StatusOK, body, nil)
		_, err := NewProxyCompleter(srv.URL, "", time.Second).Complete(context.Background(), "p", 10)
		assert.True(t, errors.Is(err, utils.ErrUnexpectedResponseShape), body)
		assert.Equal(t, "Unexpected API response format", err.Error(), body)
	}
}

func TestProxyCompleter_Non2xx(t *testing.T) {
	srv := proxyServer(t, http.StatusServiceUnavailable, `oops`, nil)

	_, err := NewProxyCompleter(srv.URL, "", time.Second).Complete(context.Background(), "p", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrUpstreamUnavailable))

	var upstream *utils.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
}

func TestProxyCompleter_SendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`"ok"`))
	}))
	defer srv.Close()

	text, err := NewProxyCompleter(srv.URL, "secret", time.Second).Complete(context.Background(), "p", 10)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestProxyCompleter_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewProxyCompleter(url, "", time.Second).Complete(context.Background(), "p", 10)
	assert.True(t, errors.Is(err, utils.ErrUpstreamUnavailable))
}

func TestNewOpenAICompleter_DefaultModel(t *testing.T) {
	c := NewOpenAICompleter("key", "", "")
	assert.Equal(t, openai.GPT4oMini, c.model)
}
