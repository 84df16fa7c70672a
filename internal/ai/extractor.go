// Package ai talks to a chat-completions API to extract trade fields from
// trade screenshots referenced by URL.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quantlog/quantlog/internal/domain/dto"
)

// Extractor asks a vision-capable model to read trade fields out of a
// screenshot.
type Extractor interface {
	ExtractTrade(ctx context.Context, imageURL string) (*dto.ExtractionResponse, error)
}

type client struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewExtractor builds an Extractor against a chat-completions endpoint.
func NewExtractor(endpoint, apiKey, model string) Extractor {
	return &client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type imagePart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const extractionPrompt = `You are reading a screenshot of a closed trade from a trading platform.
Extract the trade fields and answer with JSON ONLY, no prose:
{
  "symbol": "instrument ticker as shown",
  "side": "long" or "short",
  "entry_price": number,
  "exit_price": number,
  "quantity": number,
  "profit_loss": signed number in account currency,
  "roi": signed percentage number
}
Use 0 for any numeric field you cannot read and "" for any text field.`

// ExtractTrade sends the screenshot to the model and parses the JSON object
// out of its reply.
func (c *client) ExtractTrade(ctx context.Context, imageURL string) (*dto.ExtractionResponse, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []imagePart{
					{Type: "text", Text: extractionPrompt},
					{Type: "image_url", ImageURL: imageURL},
				},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction API error: %s", string(body))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, err
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("no response from model")
	}

	return parseExtraction(chat.Choices[0].Message.Content)
}

// parseExtraction pulls the first {...} block out of the model reply.
// Models occasionally wrap the JSON in prose or code fences despite the
// prompt, so slicing is more reliable than unmarshalling the raw reply.
func parseExtraction(content string) (*dto.ExtractionResponse, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var out dto.ExtractionResponse
	if err := json.Unmarshal([]byte(content[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	side := strings.ToLower(strings.TrimSpace(out.Side))
	if side != "long" && side != "short" {
		side = ""
	}
	out.Side = side

	return &out, nil
}
