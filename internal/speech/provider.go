package speech

import (
	"context"
	"fmt"
	"log"
)

// Provider defines the interface for text-to-speech engines
type Provider interface {
	// GenerateAudio renders text as speech and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for speech providers
type Config struct {
	Provider     string // Provider name: "edge-tts", "openai" or "espeak"
	Language     string // BCP-47 voice language, e.g. "zh-CN"
	OutputFormat string // Output format: "mp3" or "wav"

	// edge-tts settings
	EdgeVoice string // e.g. "zh-CN-XiaoxiaoNeural"

	// OpenAI settings
	OpenAIKey   string
	OpenAIModel string  // "tts-1", "tts-1-hd" or "gpt-4o-mini-tts"
	OpenAIVoice string  // "alloy", "nova", ...
	OpenAISpeed float64 // 0.25 to 4.0

	// espeak settings
	ESpeakVoice string // e.g. "zh" or "cmn"
	ESpeakSpeed int    // words per minute
}

// DefaultConfig returns the default speech configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:     "edge-tts",
		Language:     "zh-CN",
		OutputFormat: "mp3",
		EdgeVoice:    "zh-CN-XiaoxiaoNeural",
		OpenAIModel:  "gpt-4o-mini-tts",
		OpenAIVoice:  "alloy",
		OpenAISpeed:  1.0,
		ESpeakVoice:  "cmn",
		ESpeakSpeed:  150,
	}
}

// NewProvider creates the configured provider wrapped with the espeak-ng
// fallback. If both engines fail, GenerateAudio returns the error to the
// caller: with no audio artifact there is nothing to play.
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var primary Provider
	var err error

	switch config.Provider {
	case "edge-tts", "":
		primary = NewEdgeTTSProvider(config)
	case "openai":
		primary, err = NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
	case "espeak":
		return NewESpeakProvider(config)
	default:
		return nil, fmt.Errorf("unknown speech provider: %s", config.Provider)
	}

	fallback, err := NewESpeakProvider(config)
	if err != nil {
		// No fallback engine installed; run with the primary alone.
		return primary, nil
	}
	return NewProviderWithFallback(primary, fallback), nil
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateAudio tries the primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, outputFile)
	if err != nil {
		log.Printf("speech: primary provider (%s) failed: %v, falling back to %s",
			p.primary.Name(), err, p.fallback.Name())
		return p.fallback.GenerateAudio(ctx, text, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
