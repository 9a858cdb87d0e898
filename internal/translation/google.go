package translation

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GoogleBackend translates via the Gemini API. Authentication is a
// pre-shared API key sent in a request header by the client library.
type GoogleBackend struct {
	config GoogleConfig
}

// NewGoogleBackend creates a Gemini translation backend.
func NewGoogleBackend(config GoogleConfig) (*GoogleBackend, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if config.Model == "" {
		config.Model = defaultGeminiModel
	}
	return &GoogleBackend{config: config}, nil
}

// Name returns the backend name.
func (g *GoogleBackend) Name() string { return "google" }

// Translate asks Gemini for a translation and returns the model output.
func (g *GoogleBackend) Translate(ctx context.Context, text, src, dst string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("creating Gemini client: %w", err)
	}

	prompt := fmt.Sprintf(
		"Translate the following %s text to %s. Respond with only the translation, nothing else.\n\n%s",
		languageName(src), languageName(dst), text)

	resp, err := client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", fmt.Errorf("empty translation from Gemini")
	}
	return out, nil
}
