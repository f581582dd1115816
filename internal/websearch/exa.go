// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// exaAPIBase is the Exa search endpoint. Declared as a var so tests can
// substitute an httptest server.
var exaAPIBase = "https://api.exa.ai/search"

// snippetMaxCharacters bounds the text returned per result. Matches the
// provider's contents.text.maxCharacters request field.
const snippetMaxCharacters = 1000

// ExaBackend queries the Exa search API with auto search type and text
// contents enabled.
type ExaBackend struct {
	Client *http.Client
	APIKey string
}

// Name returns the backend identifier.
func (b *ExaBackend) Name() string { return "exa" }

// Search posts the query to the Exa search endpoint and returns the raw
// results as candidates.
func (b *ExaBackend) Search(ctx context.Context, query string, count int) ([]Candidate, error) {
	if count <= 0 {
		count = 5
	}

	reqBody := exaRequest{
		Query:      query,
		Type:       "auto",
		NumResults: count,
		Contents: exaContents{
			Text: exaTextOptions{MaxCharacters: snippetMaxCharacters},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, exaAPIBase, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Exa API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Exa API returned HTTP %d", resp.StatusCode)
	}

	var er exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing Exa response: %w", err)
	}

	candidates := make([]Candidate, 0, len(er.Results))
	for _, r := range er.Results {
		candidates = append(candidates, Candidate{
			Title: r.Title,
			Text:  r.Text,
			URL:   r.URL,
		})
	}
	return candidates, nil
}

// Exa API JSON structures.
type exaRequest struct {
	Query      string      `json:"query"`
	Type       string      `json:"type"`
	NumResults int         `json:"numResults"`
	Contents   exaContents `json:"contents"`
}

type exaContents struct {
	Text exaTextOptions `json:"text"`
}

type exaTextOptions struct {
	MaxCharacters int `json:"maxCharacters"`
}

type exaResponse struct {
	Results []exaResult `json:"results"`
}

type exaResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}
