package speech

import (
	"context"
	"errors"
	"testing"
)

// mockProvider implements Provider for testing
type mockProvider struct {
	name          string
	generateErr   error
	availableErr  error
	generateCalls int
}

func (m *mockProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.generateCalls++
	return m.generateErr
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) IsAvailable() error {
	return m.availableErr
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Provider != "edge-tts" {
		t.Errorf("Expected provider 'edge-tts', got '%s'", config.Provider)
	}
	if config.EdgeVoice != "zh-CN-XiaoxiaoNeural" {
		t.Errorf("Expected voice 'zh-CN-XiaoxiaoNeural', got '%s'", config.EdgeVoice)
	}
	if config.OutputFormat != "mp3" {
		t.Errorf("Expected output format 'mp3', got '%s'", config.OutputFormat)
	}
	if config.OpenAISpeed != 1.0 {
		t.Errorf("Expected OpenAI speed 1.0, got %f", config.OpenAISpeed)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(&Config{Provider: "unknown"})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewProviderOpenAIWithoutKey(t *testing.T) {
	_, err := NewProvider(&Config{Provider: "openai"})
	if err == nil {
		t.Error("expected error for openai provider without key")
	}
}

func TestProviderWithFallback(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	// Successful primary leaves the fallback untouched.
	ctx := context.Background()
	if err := provider.GenerateAudio(ctx, "test", "output.mp3"); err != nil {
		t.Errorf("GenerateAudio() unexpected error: %v", err)
	}
	if primary.generateCalls != 1 || fallback.generateCalls != 0 {
		t.Errorf("calls = %d/%d, want 1/0", primary.generateCalls, fallback.generateCalls)
	}

	// Primary failure falls through to the fallback.
	primary.generateErr = errors.New("primary failed")
	primary.generateCalls = 0

	if err := provider.GenerateAudio(ctx, "test", "output.mp3"); err != nil {
		t.Errorf("GenerateAudio() unexpected error: %v", err)
	}
	if primary.generateCalls != 1 || fallback.generateCalls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", primary.generateCalls, fallback.generateCalls)
	}

	// Both failing propagates the error: no audio artifact exists.
	fallback.generateErr = errors.New("fallback failed")
	if err := provider.GenerateAudio(ctx, "test", "output.mp3"); err == nil {
		t.Error("GenerateAudio() expected error when both providers fail")
	}
}

func TestProviderWithFallbackName(t *testing.T) {
	provider := NewProviderWithFallback(
		&mockProvider{name: "edge-tts"},
		&mockProvider{name: "espeak-ng"},
	)

	expected := "edge-tts (fallback: espeak-ng)"
	if provider.Name() != expected {
		t.Errorf("Name() = %v, want %v", provider.Name(), expected)
	}
}

func TestProviderWithFallbackIsAvailable(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	if err := provider.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() unexpected error: %v", err)
	}

	primary.availableErr = errors.New("primary unavailable")
	if err := provider.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() unexpected error when fallback available: %v", err)
	}

	fallback.availableErr = errors.New("fallback unavailable")
	if err := provider.IsAvailable(); err == nil {
		t.Error("IsAvailable() expected error when both providers unavailable")
	}
}
