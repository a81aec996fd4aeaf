// Package openai implements the completion provider boundary against any
// OpenAI-compatible chat completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"fitplan"
)

type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient fitplan.HTTPClient
}

type ClientOpts struct {
	BaseEndpoint string
	APIKey       string
	ModelID      string
	HTTPClient   fitplan.HTTPClient
}

func NewClient(opts ClientOpts) (*Client, error) {
	if opts.BaseEndpoint == "" {
		return nil, fmt.Errorf("invalid base endpoint")
	}
	if opts.ModelID == "" {
		return nil, fmt.Errorf("invalid model id")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	return &Client{
		endpoint:   opts.BaseEndpoint + "/v1/chat/completions",
		apiKey:     opts.APIKey,
		model:      opts.ModelID,
		httpClient: opts.HTTPClient,
	}, nil
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *wireJSONSchema `json:"json_schema,omitempty"`
}

type wireJSONSchema struct {
	Name   string `json:"name"`
	Strict bool   `json:"strict"`
	Schema any    `json:"schema"`
}

type wireRequest struct {
	Model          string              `json:"model"`
	Messages       []wireMessage       `json:"messages"`
	Temperature    float32             `json:"temperature,omitempty"`
	MaxTokens      int32               `json:"max_tokens,omitempty"`
	ResponseFormat *wireResponseFormat `json:"response_format,omitempty"`
}

type wireResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	// other metadata omitted but available
}

// Complete sends one chat completion and returns the model text verbatim.
// JSONMode maps to response_format "json_object", or "json_schema" when a
// schema is supplied.
func (c *Client) Complete(ctx context.Context, prompt string, opts fitplan.CompletionOptions) (string, error) {
	slog.Info("LLM_CLIENT: Invoked", "prompt_len", len(prompt), "json_mode", opts.JSONMode)

	model := c.model
	if opts.Model != "" {
		model = opts.Model
	}

	reqBody := wireRequest{
		Model:       model,
		Messages:    []wireMessage{{Role: "user", Content: prompt}},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if opts.JSONMode {
		reqBody.ResponseFormat = &wireResponseFormat{Type: "json_object"}
		if opts.Schema != nil {
			reqBody.ResponseFormat = &wireResponseFormat{
				Type:       "json_schema",
				JSONSchema: &wireJSONSchema{Name: "plan", Strict: true, Schema: opts.Schema},
			}
		}
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM_CLIENT: %s: %s", resp.Status, string(body))
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return "", fmt.Errorf("LLM_CLIENT: failed to decode response: %w", err)
	}
	if len(wr.Choices) == 0 {
		return "", fmt.Errorf("LLM_CLIENT: response has no choices")
	}

	return wr.Choices[0].Message.Content, nil
}
