// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/template"

	"github.com/yinhse00/SmartFinAI-sub003/internal/httputil"
)

// answerPromptTmpl is the prompt sent to the Claude API for each query. It
// constrains the model to the supplied regulatory extracts so the draft
// cannot cite provisions that were not retrieved. Per prd006-answering R1.3.
var answerPromptTmpl = template.Must(template.New("answer").Parse(`You are a Hong Kong financial regulation advisor. Answer the question using only the regulatory extracts provided below.

Requirements:
- Cite the rule number or source document for every requirement you state.
- Keep listing rules matters and Takeovers Code matters clearly separated; never mix vocabulary from one framework into an answer about the other.
- When the question concerns a corporate action timetable, present the timetable as a table with one row per dated event.
- If the extracts do not cover the question, say so plainly instead of speculating.
- End a detailed answer with a short concluding summary.

Regulatory extracts:
{{.Context}}

Question:
{{.Query}}
`))

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend drafts answers through the Claude Messages API.
type ClaudeBackend struct {
	APIKey     string
	Model      string
	MaxRetries int
	Client     *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate calls the Claude API with the answer prompt (R1.1). Rate-limited
// requests are retried with exponential backoff before giving up.
func (c *ClaudeBackend) Generate(ctx context.Context, query, regulatoryContext string) (string, error) {
	prompt, err := renderPrompt(query, regulatoryContext)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := claudeRequest{
		Model:     c.Model,
		MaxTokens: 8192,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("no text content in Claude API response")
}

// renderPrompt executes the answer prompt template.
func renderPrompt(query, regulatoryContext string) (string, error) {
	var buf bytes.Buffer
	err := answerPromptTmpl.Execute(&buf, struct{ Query, Context string }{
		Query:   query,
		Context: regulatoryContext,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
