package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zhuww/arxiv-news-app/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "arxiv-news",
		Short: "Spoken arXiv paper announcements",
		Long: `arxiv-news polls arXiv for new papers matching your keywords,
translates their titles and abstracts, and reads them aloud.

Examples:
  arxiv-news                          # Launch the interactive reader (default)
  arxiv-news --keyword "black hole"   # Override the search keywords
  arxiv-news --list-voices            # Show the available TTS voices`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Default data directory matches GUI mode
	home, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(home, ".local", "state", "arxiv-news")

	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.arxiv-news.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.DataDir, "data-dir", "d", defaultDataDir, "Data directory for audio, history and favorites")
	cmd.Flags().StringSliceVarP(&flags.Keywords, "keyword", "k", flags.Keywords, "Search keyword (repeatable)")
	cmd.Flags().StringSliceVar(&flags.Fields, "field", flags.Fields, "arXiv field or category (repeatable)")
	cmd.Flags().IntVarP(&flags.MaxResults, "max-results", "n", flags.MaxResults, "Maximum papers per fetch")
	cmd.Flags().StringVarP(&flags.Language, "language", "l", flags.Language, "Target language for spoken summaries")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")
	cmd.Flags().BoolVar(&flags.ListVoices, "list-voices", false, "List edge-tts voices for the target language")
	cmd.Flags().BoolVar(&flags.ListFavorites, "favorites", false, "List saved favorites and exit")
	cmd.Flags().BoolVar(&flags.NoAutoPlay, "no-auto-play", false, "Disable automatic audio playback in GUI mode (auto-play is enabled by default)")
	cmd.Flags().BoolVar(&flags.NoReminder, "no-reminder", false, "Disable the working-hours reminder loop")
	cmd.Flags().StringVar(&flags.Autostart, "autostart", "", "Manage launch at login: register or unregister")

	// Translation flags
	cmd.Flags().StringVar(&flags.TranslationBackend, "translation-backend", "", "Preferred translation backend: doubao, baidu or google")

	// Speech flags
	cmd.Flags().StringVar(&flags.SpeechProvider, "speech-provider", flags.SpeechProvider, "Speech provider: edge-tts, openai or espeak")
	cmd.Flags().StringVar(&flags.Voice, "voice", "", "edge-tts voice name (default depends on language)")
	cmd.Flags().StringVarP(&flags.AudioFormat, "format", "f", flags.AudioFormat, "Audio format (wav or mp3)")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", "", "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("data_dir", cmd.Flags().Lookup("data-dir"))
	viper.BindPFlag("language", cmd.Flags().Lookup("language"))
	viper.BindPFlag("search.keywords", cmd.Flags().Lookup("keyword"))
	viper.BindPFlag("search.fields", cmd.Flags().Lookup("field"))
	viper.BindPFlag("search.max_results", cmd.Flags().Lookup("max-results"))
	viper.BindPFlag("translation.backend", cmd.Flags().Lookup("translation-backend"))
	viper.BindPFlag("speech.provider", cmd.Flags().Lookup("speech-provider"))
	viper.BindPFlag("speech.voice", cmd.Flags().Lookup("voice"))
	viper.BindPFlag("speech.format", cmd.Flags().Lookup("format"))
	viper.BindPFlag("speech.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("speech.openai_voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("speech.openai_speed", cmd.Flags().Lookup("openai-speed"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".arxiv-news" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".arxiv-news")
	}

	// Environment variables
	viper.SetEnvPrefix("ARXIV_NEWS")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("speech.openai_key")
}
