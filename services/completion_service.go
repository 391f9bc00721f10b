package services

import (
	"RestaurantRoulette/logging"
	"RestaurantRoulette/models"
	"RestaurantRoulette/utils"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Completer sends one prompt to the upstream model and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ProxyCompleter talks to a completion proxy that accepts {messages, max_tokens}.
type ProxyCompleter struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
}

func NewProxyCompleter(url, apiKey string, timeout time.Duration) *ProxyCompleter {
	return &ProxyCompleter{
		URL:        url,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (s *ProxyCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload := models.CompletionRequest{
		Messages:  []models.CompletionMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(jsonData))
	if err != nil {
		return "", &utils.UpstreamError{Op: "completion", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", &utils.UpstreamError{Op: "completion", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &utils.UpstreamError{Op: "completion", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &utils.UpstreamError{Op: "completion", StatusCode: resp.StatusCode}
	}

	return normalizeEnvelope(body)
}

// normalizeEnvelope accepts {content:[{text}]} or a bare JSON string.
func normalizeEnvelope(body []byte) (string, error) {
	var bare string
	if err := json.Unmarshal(body, &bare); err == nil {
		return cleanJSONResponse(bare), nil
	}

	var envelope models.CompletionEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil &&
		len(envelope.Content) > 0 && envelope.Content[0].Text != "" {
		return cleanJSONResponse(envelope.Content[0].Text), nil
	}

	logging.Error().Str("body", truncate(body, 500)).Msg("Unexpected API response")
	return "", utils.ErrUnexpectedResponseShape
}

// OpenAICompleter uses the OpenAI chat completion API.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

func NewOpenAICompleter(apiKey, baseURL, model string) *OpenAICompleter {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICompleter{client: openai.NewClientWithConfig(config), model: model}
}

func (s *OpenAICompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &utils.UpstreamError{Op: "openai completion", StatusCode: apiErr.HTTPStatusCode, Err: err}
		}
		return "", &utils.UpstreamError{Op: "openai completion", Err: err}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		logging.Error().Str("model", s.model).Msg("Unexpected API response: no choices in openai reply")
		return "", utils.ErrUnexpectedResponseShape
	}
	return cleanJSONResponse(resp.Choices[0].Message.Content), nil
}

// GeminiCompleter uses the Gemini GenerateContent API.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiCompleter{client: client, model: model}, nil
}

func (s *GeminiCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	})
	if err != nil {
		return "", &utils.UpstreamError{Op: "gemini completion", Err: err}
	}
	text := resp.Text()
	if text == "" {
		logging.Error().Str("model", s.model).Msg("Unexpected API response: empty gemini reply")
		return "", utils.ErrUnexpectedResponseShape
	}
	return cleanJSONResponse(text), nil
}

func truncate(body []byte, n int) string {
	if len(body) > n {
		return string(body[:n])
	}
	return string(body)
}
