package gui

import (
	"context"
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/zhuww/arxiv-news-app/internal/player"
)

// AudioPlayer is a custom widget for playing announcement audio files
type AudioPlayer struct {
	widget.BaseWidget

	container   *fyne.Container
	playButton  *ttwidget.Button
	stopButton  *ttwidget.Button
	statusLabel *widget.Label

	audioFile  string
	isPlaying  bool
	engine     *player.Player
	onFinished func() // called on the Fyne thread when playback ends naturally
}

// NewAudioPlayer creates a new audio player widget
func NewAudioPlayer() *AudioPlayer {
	p := &AudioPlayer{engine: player.New()}

	// Create controls with tooltips
	p.playButton = ttwidget.NewButton("", p.onPlay)
	p.playButton.Icon = theme.MediaPlayIcon()
	p.playButton.SetToolTip("Play announcement (P)")

	p.stopButton = ttwidget.NewButton("", p.onStop)
	p.stopButton.Icon = theme.MediaStopIcon()
	p.stopButton.SetToolTip("Stop audio")

	p.statusLabel = widget.NewLabel("No audio loaded")

	// Initially disable controls
	p.playButton.Disable()
	p.stopButton.Disable()

	// Create main container
	p.container = container.NewHBox(
		p.playButton,
		p.stopButton,
		layout.NewSpacer(),
		p.statusLabel,
	)

	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *AudioPlayer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.container)
}

// SetOnFinished sets the callback invoked when playback ends on its own.
func (p *AudioPlayer) SetOnFinished(f func()) {
	p.onFinished = f
}

// SetAudioFile sets the audio file to play
func (p *AudioPlayer) SetAudioFile(audioFile string) {
	p.onStop()
	p.audioFile = audioFile
	p.isPlaying = false

	if audioFile != "" {
		p.playButton.Enable()
		p.statusLabel.SetText(fmt.Sprintf("Audio: %s", filepath.Base(audioFile)))
	} else {
		p.Clear()
	}
}

// Clear clears the audio player
func (p *AudioPlayer) Clear() {
	p.onStop() // Stop any playing audio
	p.audioFile = ""
	p.isPlaying = false
	p.playButton.Disable()
	p.stopButton.Disable()
	p.statusLabel.SetText("No audio loaded")
}

// onPlay handles play button click
func (p *AudioPlayer) onPlay() {
	if p.audioFile == "" {
		return
	}

	if p.isPlaying {
		p.onStop()
		return
	}

	p.isPlaying = true
	p.playButton.SetIcon(theme.MediaPauseIcon())
	p.stopButton.Enable()
	p.statusLabel.SetText(fmt.Sprintf("Playing: %s", filepath.Base(p.audioFile)))

	audioFile := p.audioFile
	go func() {
		err := p.engine.Play(context.Background(), audioFile)
		fyne.Do(func() {
			wasPlaying := p.isPlaying
			p.isPlaying = false
			p.playButton.SetIcon(theme.MediaPlayIcon())
			p.stopButton.Disable()
			if err != nil {
				p.statusLabel.SetText(fmt.Sprintf("Error: %v", err))
				return
			}
			p.statusLabel.SetText(fmt.Sprintf("Finished: %s", filepath.Base(audioFile)))
			// Only chain to the next paper when playback ran to completion.
			if wasPlaying && p.onFinished != nil {
				p.onFinished()
			}
		})
	}()
}

// onStop handles stop button click
func (p *AudioPlayer) onStop() {
	p.isPlaying = false
	p.engine.Stop()
	p.playButton.SetIcon(theme.MediaPlayIcon())
	p.stopButton.Disable()
	if p.audioFile != "" {
		p.statusLabel.SetText(fmt.Sprintf("Stopped: %s", filepath.Base(p.audioFile)))
	}
}

// Play triggers audio playback
func (p *AudioPlayer) Play() {
	if !p.playButton.Disabled() && !p.isPlaying {
		p.onPlay()
	}
}

// Stop halts playback
func (p *AudioPlayer) Stop() {
	p.onStop()
}

// IsPlaying reports whether audio is currently playing
func (p *AudioPlayer) IsPlaying() bool {
	return p.isPlaying
}
