package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ESpeakProvider implements Provider for the espeak-ng engine. It is the
// simple offline fallback when the neural engines are unavailable.
type ESpeakProvider struct {
	voice string
	speed int
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *Config) (*ESpeakProvider, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}

	voice := config.ESpeakVoice
	if voice == "" {
		voice = "cmn"
	}
	speed := config.ESpeakSpeed
	if speed < 80 {
		speed = 150
	} else if speed > 450 {
		speed = 450
	}

	return &ESpeakProvider{voice: voice, speed: speed}, nil
}

// GenerateAudio generates audio using espeak-ng. WAV output is written
// directly; MP3 goes through a temporary WAV converted with ffmpeg.
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	ext := strings.ToLower(filepath.Ext(outputFile))
	if ext == ".wav" {
		return p.generateWAV(ctx, text, outputFile)
	}
	if ext != ".mp3" {
		outputFile += ".mp3"
	}

	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"
	if err := p.generateWAV(ctx, text, tempWAV); err != nil {
		return err
	}
	if err := convertWAVToMP3(ctx, tempWAV, outputFile); err != nil {
		os.Remove(tempWAV)
		return err
	}
	return os.Remove(tempWAV)
}

func (p *ESpeakProvider) generateWAV(ctx context.Context, text, outputFile string) error {
	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	cmd := exec.CommandContext(ctx, "espeak-ng",
		"-v", p.voice,
		"-s", fmt.Sprintf("%d", p.speed),
		"-w", outputFile,
		text,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	return checkESpeakInstalled()
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// convertWAVToMP3 converts a WAV file to MP3 using ffmpeg
func convertWAVToMP3(ctx context.Context, wavFile, mp3File string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-i", wavFile, "-acodec", "mp3", "-y", mp3File)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}
