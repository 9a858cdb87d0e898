package translation

import (
	"context"
	"strings"
)

// Backend is a single translation service integration. Translate returns
// an explicit error on failure; callers never infer failure from the
// output text.
type Backend interface {
	// Translate translates text from src to dst and returns the
	// translated text, or an error when the service is unavailable or
	// returned nothing usable.
	Translate(ctx context.Context, text, src, dst string) (string, error)

	// Name returns the backend name.
	Name() string
}

// Config holds the backend selector and per-backend credentials.
type Config struct {
	// Backend names the preferred backend ("google", "baidu" or
	// "doubao"). Empty means the default priority order.
	Backend string

	Google GoogleConfig
	Baidu  BaiduConfig
	Doubao DoubaoConfig
}

// GoogleConfig configures the Gemini backend.
type GoogleConfig struct {
	APIKey string
	Model  string // defaults to gemini-2.0-flash
}

// BaiduConfig configures the Baidu fanyi backend.
type BaiduConfig struct {
	AppID  string
	AppKey string
}

// DoubaoConfig configures the Doubao (Ark) backend.
type DoubaoConfig struct {
	APIKey    string
	SecretKey string
	Model     string // defaults to doubao-pro-32k
}

// languageName maps a language code to the name used in translation
// prompts. Unknown codes pass through unchanged.
func languageName(code string) string {
	switch strings.ToLower(code) {
	case "zh", "zh-cn", "zh-hans":
		return "Chinese"
	case "zh-tw", "zh-hant":
		return "Traditional Chinese"
	case "en", "en-us", "en-gb":
		return "English"
	case "ja":
		return "Japanese"
	case "ko":
		return "Korean"
	case "de":
		return "German"
	case "fr":
		return "French"
	case "es":
		return "Spanish"
	case "ru":
		return "Russian"
	case "bg":
		return "Bulgarian"
	default:
		return code
	}
}
