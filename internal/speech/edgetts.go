package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// edgeTTSCommand is the edge-tts executable name. Declared as a var so
// tests can substitute a stub script.
var edgeTTSCommand = "edge-tts"

// EdgeTTSProvider implements Provider for the edge-tts neural voices,
// invoked as an external process.
type EdgeTTSProvider struct {
	voice string
}

// NewEdgeTTSProvider creates an edge-tts provider using the configured
// voice, defaulting to the Chinese Xiaoxiao neural voice.
func NewEdgeTTSProvider(config *Config) *EdgeTTSProvider {
	voice := config.EdgeVoice
	if voice == "" {
		voice = "zh-CN-XiaoxiaoNeural"
	}
	return &EdgeTTSProvider{voice: voice}
}

// GenerateAudio renders text through edge-tts into outputFile.
func (p *EdgeTTSProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	cmd := exec.CommandContext(ctx, edgeTTSCommand,
		"--voice", p.voice,
		"--text", text,
		"--write-media", outputFile,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("edge-tts failed: %w\nOutput: %s", err, string(output))
	}

	info, err := os.Stat(outputFile)
	if err != nil {
		return fmt.Errorf("edge-tts produced no output file: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(outputFile)
		return fmt.Errorf("edge-tts produced an empty file")
	}
	return nil
}

// Name returns the provider name
func (p *EdgeTTSProvider) Name() string {
	return "edge-tts"
}

// IsAvailable checks that the edge-tts executable is on the PATH.
func (p *EdgeTTSProvider) IsAvailable() error {
	if _, err := exec.LookPath(edgeTTSCommand); err != nil {
		return fmt.Errorf("edge-tts is not installed or not in PATH: %w", err)
	}
	return nil
}

// ListEdgeVoices returns common edge-tts voice names for a language.
func ListEdgeVoices(language string) []string {
	switch language {
	case "zh-CN", "zh", "zh-cn":
		return []string{
			"zh-CN-XiaoxiaoNeural",
			"zh-CN-XiaoyiNeural",
			"zh-CN-YunjianNeural",
			"zh-CN-YunxiNeural",
			"zh-CN-YunyangNeural",
		}
	case "en-US", "en":
		return []string{
			"en-US-AriaNeural",
			"en-US-GuyNeural",
			"en-US-JennyNeural",
		}
	default:
		return nil
	}
}
