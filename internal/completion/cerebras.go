// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// cerebrasAPIBase is the Cerebras chat-completions endpoint. Package-level
// var for test substitution.
var cerebrasAPIBase = "https://api.cerebras.ai/v1/chat/completions"

// DefaultModel is the completion model used when none is configured.
const DefaultModel = "llama-4-scout-17b-16e-instruct"

// Fixed generation parameters: short-form output, near-deterministic sampling.
const (
	maxCompletionTokens = 600
	temperature         = 0.2
)

// CerebrasBackend calls the Cerebras chat-completions API with a single
// user message and fixed generation parameters.
type CerebrasBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// cerebrasRequest is the request body for the chat-completions API.
type cerebrasRequest struct {
	Model       string            `json:"model"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
	Messages    []cerebrasMessage `json:"messages"`
}

// cerebrasMessage is a single message in the conversation.
type cerebrasMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// cerebrasResponse is the response body from the chat-completions API.
type cerebrasResponse struct {
	Choices []cerebrasChoice `json:"choices"`
}

// cerebrasChoice is one completion choice in the response.
type cerebrasChoice struct {
	Message cerebrasMessage `json:"message"`
}

// Complete sends the prompt as one user message and returns the first
// choice's content.
func (c *CerebrasBackend) Complete(ctx context.Context, prompt string) (string, error) {
	model := c.Model
	if model == "" {
		model = DefaultModel
	}

	reqBody := cerebrasRequest{
		Model:       model,
		MaxTokens:   maxCompletionTokens,
		Temperature: temperature,
		Messages: []cerebrasMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cerebrasAPIBase, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Cerebras API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Cerebras API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp cerebrasResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Cerebras response: %w", err)
	}

	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("Cerebras API returned no choices")
	}

	return cResp.Choices[0].Message.Content, nil
}
