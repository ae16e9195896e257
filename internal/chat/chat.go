// Package chat proxies single-turn messages to an OpenAI-compatible
// inference endpoint. It keeps no state and adds no logic beyond mapping the
// provider's failure modes to stable client-facing errors.
package chat

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// Error is a proxy failure with the HTTP status a caller should relay.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a chat client for the given endpoint and model.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Reply forwards one user message to the inference endpoint and returns the
// assistant's reply. On failure the returned error is a *Error.
func (c *Client) Reply(ctx context.Context, message string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: message}},
	})
	if err != nil {
		return "", mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "No reply received.", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// mapError translates provider failures: auth problems and unknown models
// keep their status with a fixed message, other client errors pass the
// provider's message through, and everything else (provider 5xx, transport
// errors) collapses to a generic failure.
func mapError(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return statusError(reqErr.HTTPStatusCode, "")
	}
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: "Network error or failed to get response from AI model.",
	}
}

func statusError(status int, upstreamMsg string) *Error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{Status: status, Message: "Authentication error with AI model. Check API token."}
	case status == http.StatusNotFound:
		return &Error{Status: status, Message: "AI model not found or provider issue."}
	case status >= 400 && status < 500:
		if upstreamMsg == "" {
			upstreamMsg = "AI model request failed."
		}
		return &Error{Status: status, Message: upstreamMsg}
	default:
		return &Error{
			Status:  http.StatusInternalServerError,
			Message: "Failed to get response from AI model due to a server-side issue at the provider.",
		}
	}
}
