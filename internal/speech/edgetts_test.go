package speech

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeStubEdgeTTS installs a shell script that mimics edge-tts by writing
// fake audio bytes to the --write-media argument.
func writeStubEdgeTTS(t *testing.T, dir string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub not supported on windows")
	}

	script := `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--write-media" ]; then
    out="$2"
    shift
  fi
  shift
done
printf 'fake mp3 data' > "$out"
`
	path := filepath.Join(dir, "edge-tts")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write stub: %v", err)
	}
	return path
}

func TestEdgeTTSGenerateAudio(t *testing.T) {
	dir := t.TempDir()

	origCommand := edgeTTSCommand
	edgeTTSCommand = writeStubEdgeTTS(t, dir)
	defer func() { edgeTTSCommand = origCommand }()

	provider := NewEdgeTTSProvider(&Config{
		Provider:     "edge-tts",
		EdgeVoice:    "zh-CN-XiaoxiaoNeural",
		OutputFormat: "mp3",
	})

	outputFile := filepath.Join(dir, "out.mp3")
	if err := provider.GenerateAudio(context.Background(), "你好", outputFile); err != nil {
		t.Fatalf("GenerateAudio() error: %v", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if len(data) == 0 {
		t.Error("output file is empty")
	}
}

func TestEdgeTTSEmptyOutput(t *testing.T) {
	dir := t.TempDir()

	script := "#!/bin/sh\nexit 0\n"
	stubPath := filepath.Join(dir, "edge-tts-empty")
	if runtime.GOOS == "windows" {
		t.Skip("shell stub not supported on windows")
	}
	if err := os.WriteFile(stubPath, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write stub: %v", err)
	}

	origCommand := edgeTTSCommand
	edgeTTSCommand = stubPath
	defer func() { edgeTTSCommand = origCommand }()

	provider := NewEdgeTTSProvider(&Config{EdgeVoice: "zh-CN-XiaoxiaoNeural"})

	outputFile := filepath.Join(dir, "out.mp3")
	if err := provider.GenerateAudio(context.Background(), "text", outputFile); err == nil {
		t.Error("expected error when edge-tts produces no audio")
	}
}

func TestEdgeTTSName(t *testing.T) {
	provider := NewEdgeTTSProvider(&Config{})
	if provider.Name() != "edge-tts" {
		t.Errorf("Name() = %v, want edge-tts", provider.Name())
	}
}
