// Package config builds the typed application configuration from the
// viper config file, environment variables and an optional .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/zhuww/arxiv-news-app/internal/speech"
	"github.com/zhuww/arxiv-news-app/internal/translation"
)

// Search configures the arXiv query.
type Search struct {
	Keywords   []string
	Fields     []string
	MaxResults int
}

// Reminder configures the working-hours reminder window.
type Reminder struct {
	Enabled   bool
	StartHour int
	EndHour   int
}

// Config is the full application configuration.
type Config struct {
	DataDir     string
	AutoPlay    bool
	Language    string // target language for summaries, e.g. "zh-CN"
	Search      Search
	Translation translation.Config
	Speech      speech.Config
	Reminder    Reminder
}

// Default returns the built-in configuration, before any file or
// environment overrides.
func Default() *Config {
	home, _ := os.UserHomeDir()
	sp := speech.DefaultConfig()
	return &Config{
		DataDir:  filepath.Join(home, ".local", "state", "arxiv-news"),
		AutoPlay: true,
		Language: "zh-CN",
		Search: Search{
			Keywords:   []string{"pulsar"},
			Fields:     []string{"astro-ph"},
			MaxResults: 10,
		},
		Speech: *sp,
		Reminder: Reminder{
			Enabled:   true,
			StartHour: 9,
			EndHour:   17,
		},
	}
}

// Load reads .env credentials and applies viper overrides on top of the
// defaults. InitConfig must have been called first so viper has read
// the config file.
func Load() (*Config, error) {
	// .env beside the binary or in the working directory, for API keys.
	// Absence is not an error.
	godotenv.Load()

	cfg := Default()

	if v := viper.GetString("data_dir"); v != "" {
		cfg.DataDir = v
	}
	if viper.IsSet("auto_play") {
		cfg.AutoPlay = viper.GetBool("auto_play")
	}
	if v := viper.GetString("language"); v != "" {
		cfg.Language = v
	}

	if v := viper.GetStringSlice("search.keywords"); len(v) > 0 {
		cfg.Search.Keywords = v
	}
	if v := viper.GetStringSlice("search.fields"); len(v) > 0 {
		cfg.Search.Fields = v
	}
	if v := viper.GetInt("search.max_results"); v > 0 {
		cfg.Search.MaxResults = v
	}

	cfg.Translation.Backend = viper.GetString("translation.backend")
	cfg.Translation.Google.APIKey = firstNonEmpty(
		os.Getenv("GOOGLE_API_KEY"), viper.GetString("translation.google_api_key"))
	cfg.Translation.Google.Model = viper.GetString("translation.google_model")
	cfg.Translation.Baidu.AppID = firstNonEmpty(
		os.Getenv("BAIDU_APP_ID"), viper.GetString("translation.baidu_app_id"))
	cfg.Translation.Baidu.AppKey = firstNonEmpty(
		os.Getenv("BAIDU_APP_KEY"), viper.GetString("translation.baidu_app_key"))
	cfg.Translation.Doubao.APIKey = firstNonEmpty(
		os.Getenv("DOUBAO_API_KEY"), viper.GetString("translation.doubao_api_key"))
	cfg.Translation.Doubao.SecretKey = firstNonEmpty(
		os.Getenv("DOUBAO_SECRET_KEY"), viper.GetString("translation.doubao_secret_key"))
	cfg.Translation.Doubao.Model = viper.GetString("translation.doubao_model")

	if v := viper.GetString("speech.provider"); v != "" {
		cfg.Speech.Provider = v
	}
	if v := viper.GetString("speech.voice"); v != "" {
		cfg.Speech.EdgeVoice = v
	}
	if v := viper.GetString("speech.format"); v != "" {
		cfg.Speech.OutputFormat = v
	}
	cfg.Speech.Language = cfg.Language
	cfg.Speech.OpenAIKey = firstNonEmpty(
		os.Getenv("OPENAI_API_KEY"), viper.GetString("speech.openai_key"))
	if v := viper.GetString("speech.openai_model"); v != "" {
		cfg.Speech.OpenAIModel = v
	}
	if v := viper.GetString("speech.openai_voice"); v != "" {
		cfg.Speech.OpenAIVoice = v
	}
	if v := viper.GetFloat64("speech.openai_speed"); v > 0 {
		cfg.Speech.OpenAISpeed = v
	}

	if viper.IsSet("reminder.enabled") {
		cfg.Reminder.Enabled = viper.GetBool("reminder.enabled")
	}
	if viper.IsSet("reminder.start_hour") {
		cfg.Reminder.StartHour = viper.GetInt("reminder.start_hour")
	}
	if viper.IsSet("reminder.end_hour") {
		cfg.Reminder.EndHour = viper.GetInt("reminder.end_hour")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if len(c.Search.Keywords) == 0 {
		return fmt.Errorf("at least one search keyword is required")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive")
	}
	if c.Reminder.StartHour < 0 || c.Reminder.StartHour > 23 {
		return fmt.Errorf("reminder.start_hour must be between 0 and 23")
	}
	if c.Reminder.EndHour <= c.Reminder.StartHour || c.Reminder.EndHour > 24 {
		return fmt.Errorf("reminder.end_hour must be after start_hour and at most 24")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
