// Package player plays generated audio files through an external
// command-line player, falling back to the desktop default opener when
// no player is installed.
package player

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

// Test seams.
var (
	lookPath    = exec.LookPath
	commandCtx  = exec.CommandContext
	osIdent     = runtime.GOOS
	minDuration = 10 * time.Second
)

// Player runs one audio file at a time through an external player process.
type Player struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	playing bool
	stop    chan struct{} // closed by Stop to interrupt the opener wait
}

// New creates a Player.
func New() *Player {
	return &Player{}
}

// buildCommand picks a platform playback command for the audio file. The
// opener result marks commands that hand the file off and exit without
// waiting for playback, so the caller must sleep an estimated duration.
func buildCommand(ctx context.Context, audioFile string) (cmd *exec.Cmd, opener bool, err error) {
	switch osIdent {
	case "darwin":
		return commandCtx(ctx, "afplay", audioFile), false, nil
	case "linux":
		// mpg123 first since it handles MP3 files best
		if _, err := lookPath("mpg123"); err == nil {
			return commandCtx(ctx, "mpg123", "-q", audioFile), false, nil
		}
		if _, err := lookPath("ffplay"); err == nil {
			return commandCtx(ctx, "ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", audioFile), false, nil
		}
		if _, err := lookPath("play"); err == nil {
			// SoX play command
			return commandCtx(ctx, "play", "-q", audioFile), false, nil
		}
		if _, err := lookPath("paplay"); err == nil {
			return commandCtx(ctx, "paplay", audioFile), false, nil
		}
		if _, err := lookPath("aplay"); err == nil {
			return commandCtx(ctx, "aplay", "-q", audioFile), false, nil
		}
		// Last resort: hand the file to the desktop opener.
		if _, err := lookPath("xdg-open"); err == nil {
			return commandCtx(ctx, "xdg-open", audioFile), true, nil
		}
		return nil, false, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		return commandCtx(ctx, "cmd", "/c", "start", "/min", audioFile), true, nil
	default:
		return nil, false, fmt.Errorf("unsupported platform: %s", osIdent)
	}
}

// Play starts playing the audio file and blocks until playback finishes,
// Stop is called, or the context is canceled. When only the desktop
// opener is available it exits as soon as the file is handed off, so
// Play sleeps the estimated playback duration before returning.
func (p *Player) Play(ctx context.Context, audioFile string) error {
	cmd, opener, err := buildCommand(ctx, audioFile)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return fmt.Errorf("already playing")
	}
	stop := make(chan struct{})
	p.cmd = cmd
	p.playing = true
	p.stop = stop
	p.mu.Unlock()

	runErr := cmd.Run()

	if runErr == nil && opener && ctx.Err() == nil {
		p.waitEstimated(ctx, audioFile, stop)
	}

	p.mu.Lock()
	stopped := p.cmd == nil
	p.cmd = nil
	p.playing = false
	p.stop = nil
	p.mu.Unlock()

	if stopped || ctx.Err() != nil {
		// Killed deliberately; not a playback failure.
		return nil
	}
	if runErr != nil {
		return fmt.Errorf("playback failed: %w", runErr)
	}
	return nil
}

// waitEstimated sleeps for the file's estimated playback duration. The
// opener offers no completion signal, so this is the only way to block
// until the audio has plausibly finished.
func (p *Player) waitEstimated(ctx context.Context, audioFile string, stop chan struct{}) {
	wait := minDuration
	if info, err := os.Stat(audioFile); err == nil {
		wait = EstimateDuration(info.Size())
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-stop:
	case <-timer.C:
	}
}

// Stop kills the running player process, if any, and interrupts an
// opener-fallback wait.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	p.cmd = nil
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

// IsPlaying reports whether a player process is currently running.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// EstimateDuration guesses playback length from the MP3 file size, assuming
// roughly one minute of speech per mebibyte with 20% headroom. Used as a
// wait bound when the player command cannot report progress.
func EstimateDuration(sizeBytes int64) time.Duration {
	perMiB := 60 * time.Second
	d := time.Duration(float64(sizeBytes) / (1 << 20) * float64(perMiB) * 1.2)
	if d < minDuration {
		return minDuration
	}
	return d
}
