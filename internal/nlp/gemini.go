// Package nlp wraps the Gemini generative API behind a small client.
package nlp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrMissingAPIKey = errors.New("nlp api key is not configured")

const (
	generationTemperature = 0.2
	generationMaxTokens   = 2048
)

// GeminiClient generates answers through the Gemini API. The underlying
// client is created lazily so the service can boot without a key; calls
// fail with ErrMissingAPIKey until one is configured.
type GeminiClient struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{apiKey: apiKey, model: model}
}

func (c *GeminiClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

func (c *GeminiClient) ensureClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client failed: %w", err)
	}
	c.client = client
	return client, nil
}

// Generate runs a single prompt with an optional system message and
// returns the flattened text of the first candidate.
func (c *GeminiClient) Generate(ctx context.Context, systemMessage, prompt string) (string, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(c.model)
	if systemMessage != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemMessage)},
		}
	}

	temp := float32(generationTemperature)
	maxTokens := int32(generationMaxTokens)
	candidates := int32(1)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     &temp,
		MaxOutputTokens: &maxTokens,
		CandidateCount:  &candidates,
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	if out.Len() == 0 {
		return "", errors.New("gemini returned no text parts")
	}
	return out.String(), nil
}
