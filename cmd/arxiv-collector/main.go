package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zhuww/arxiv-news-app/internal"
	"github.com/zhuww/arxiv-news-app/internal/config"
	"github.com/zhuww/arxiv-news-app/internal/player"
	"github.com/zhuww/arxiv-news-app/internal/processor"
)

var (
	// Flags
	cfgFile  string
	interval time.Duration
	once     bool
	silent   bool
)

// errCooldown is how long to wait after a failed fetch before retrying.
const errCooldown = time.Hour

// pauseBetween separates consecutive announcements.
const pauseBetween = 2 * time.Second

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arxiv-collector",
	Short: "Headless arXiv paper announcer",
	Long: `arxiv-collector polls arXiv on a schedule, translates new papers
matching the configured keywords and reads them aloud, without a GUI.

Example:
  arxiv-collector                  # Poll every hour and announce new papers
  arxiv-collector --once           # Single fetch-and-announce pass
  arxiv-collector --silent         # Record new papers without playing audio`,
	Args:    cobra.NoArgs,
	RunE:    runCommand,
	Version: internal.Version,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.arxiv-news.yaml)")
	rootCmd.Flags().DurationVar(&interval, "interval", time.Hour, "Polling interval")
	rootCmd.Flags().BoolVar(&once, "once", false, "Run a single pass and exit")
	rootCmd.Flags().BoolVar(&silent, "silent", false, "Skip audio playback, only record history")
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

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

func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	proc, err := processor.New(cfg)
	if err != nil {
		return err
	}
	defer proc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if once {
		return runPass(ctx, cfg, proc)
	}

	for {
		wait := interval
		if err := runPass(ctx, cfg, proc); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Pass failed: %v\n", err)
			wait = errCooldown
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// runPass fetches, announces and records one batch of papers.
func runPass(ctx context.Context, cfg *config.Config, proc *processor.Processor) error {
	fmt.Printf("Checking arXiv for new papers (%s)...\n", strings.Join(cfg.Search.Keywords, ", "))

	items, err := proc.FetchNew(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No new papers found.")
		if !silent {
			if err := announceText(ctx, cfg, proc, noPapersNotice(cfg.Language)); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to announce empty result: %v\n", err)
			}
		}
		return nil
	}

	fmt.Printf("Found %d new papers.\n", len(items))

	session := proc.NewSession(items)
	session.Start(ctx)
	defer session.Invalidate()

	engine := player.New()
	for pos, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("\n[%d/%d] %s\n", pos+1, len(items), item.Paper.Title)

		audioFile, err := session.WaitReady(ctx, pos)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", item.Paper.ID, err)
			continue
		}

		if !silent {
			if err := engine.Play(ctx, audioFile); err != nil {
				fmt.Fprintf(os.Stderr, "Playback failed for %s: %v\n", item.Paper.ID, err)
			}
		}
		// Each file is spoken once; reclaim the disk space right away.
		if path, err := session.Consume(pos); err == nil {
			os.Remove(path)
		}

		if err := proc.MarkAnnounced(ctx, item.Paper.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to record announcement of %s: %v\n", item.Paper.ID, err)
		}

		if pos+1 < len(items) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pauseBetween):
			}
		}
	}

	return nil
}

// announceText speaks a one-off notice outside any session.
func announceText(ctx context.Context, cfg *config.Config, proc *processor.Processor, text string) error {
	audioFile := filepath.Join(cfg.DataDir, "audio", "notice.mp3")
	if err := os.MkdirAll(filepath.Dir(audioFile), 0o755); err != nil {
		return err
	}
	defer os.Remove(audioFile)

	if err := proc.Speaker().GenerateAudio(ctx, text, audioFile); err != nil {
		return err
	}
	return player.New().Play(ctx, audioFile)
}

// noPapersNotice picks the spoken empty-result message for the language.
func noPapersNotice(language string) string {
	if strings.HasPrefix(strings.ToLower(language), "zh") {
		return "没有找到新的文章。"
	}
	return "No new papers found."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
