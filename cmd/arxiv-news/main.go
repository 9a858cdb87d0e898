package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhuww/arxiv-news-app/internal/autostart"
	"github.com/zhuww/arxiv-news-app/internal/cli"
	"github.com/zhuww/arxiv-news-app/internal/config"
	"github.com/zhuww/arxiv-news-app/internal/favorites"
	"github.com/zhuww/arxiv-news-app/internal/gui"
	"github.com/zhuww/arxiv-news-app/internal/models"
	"github.com/zhuww/arxiv-news-app/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(flags *cli.Flags) error {
	// Handle --autostart flag
	switch flags.Autostart {
	case "":
	case "register":
		if err := autostart.Register(); err != nil {
			return fmt.Errorf("failed to register autostart: %w", err)
		}
		fmt.Println("Registered to launch at login")
		return nil
	case "unregister":
		if err := autostart.Unregister(); err != nil {
			return fmt.Errorf("failed to unregister autostart: %w", err)
		}
		fmt.Println("Removed launch at login")
		return nil
	default:
		return fmt.Errorf("unknown autostart action %q (use register or unregister)", flags.Autostart)
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels()
	}

	// Handle --list-voices flag
	if flags.ListVoices {
		models.ListVoices(flags.Language)
		return nil
	}

	// Load full configuration (config file + environment)
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Handle --favorites flag
	if flags.ListFavorites {
		return listFavorites(cfg.DataDir)
	}
	if flags.NoAutoPlay {
		cfg.AutoPlay = false
	}
	if flags.NoReminder {
		cfg.Reminder.Enabled = false
	}

	// Create the pipeline
	proc, err := processor.New(cfg)
	if err != nil {
		return err
	}
	defer proc.Close()

	// Favorites live next to the history database
	favs, err := favorites.NewStore(filepath.Join(cfg.DataDir, "favorites"))
	if err != nil {
		return err
	}

	// Create and run GUI application
	app := gui.New(cfg, proc, favs)
	app.Run()

	return nil
}

// listFavorites prints the saved favorites, newest first.
func listFavorites(dataDir string) error {
	favs, err := favorites.NewStore(filepath.Join(dataDir, "favorites"))
	if err != nil {
		return err
	}

	entries := favs.List()
	if len(entries) == 0 {
		fmt.Println("No favorites saved yet")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %s\n", e.Paper.ID, e.Paper.Title)
		if len(e.Paper.Authors) > 0 {
			fmt.Printf("    %s\n", strings.Join(e.Paper.Authors, ", "))
		}
		fmt.Printf("    added %s\n", e.AddedAt.Format("2006-01-02"))
	}
	return nil
}
