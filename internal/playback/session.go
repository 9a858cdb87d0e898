// Package playback coordinates audio pregeneration for a batch of paper
// summaries, so moving to the next paper never waits on synthesis that
// already happened in the background.
package playback

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Synthesizer turns summary text into an audio file.
type Synthesizer func(ctx context.Context, text, outputFile string) error

// State is the lifecycle of one position's audio.
type State int

const (
	StatePending State = iota
	StateGenerating
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateGenerating:
		return "generating"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type item struct {
	state    State
	file     string
	err      error
	consumed bool
	done     chan struct{} // closed once state is Ready or Failed
}

// Session pregenerates audio for an ordered list of summaries. One
// background worker fills positions in order; WaitReady picks up any
// position the worker has not reached yet.
type Session struct {
	mu     sync.Mutex
	items  []*item
	texts  []string
	dir    string
	synth  Synthesizer
	cancel context.CancelFunc
}

// NewSession creates a session that will write audio files under dir.
func NewSession(dir string, texts []string, synth Synthesizer) *Session {
	items := make([]*item, len(texts))
	for i := range items {
		items[i] = &item{done: make(chan struct{})}
	}
	return &Session{
		items: items,
		texts: texts,
		dir:   dir,
		synth: synth,
	}
}

// Len returns the number of positions in the session.
func (s *Session) Len() int {
	return len(s.items)
}

// Start launches the background pregeneration worker. Calling Start more
// than once is a no-op.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	workerCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	go s.run(workerCtx)
}

func (s *Session) run(ctx context.Context) {
	for pos := range s.items {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.mu.Lock()
		it := s.items[pos]
		if it.state != StatePending {
			s.mu.Unlock()
			continue
		}
		it.state = StateGenerating
		s.mu.Unlock()

		s.generate(ctx, pos)
	}
}

// generate synthesizes one position and moves it to a terminal state.
// The caller must have already claimed the position as Generating.
func (s *Session) generate(ctx context.Context, pos int) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.finish(pos, "", fmt.Errorf("failed to create audio directory: %w", err))
		return
	}

	file := filepath.Join(s.dir, fmt.Sprintf("paper_%03d.mp3", pos))
	if err := s.synth(ctx, s.texts[pos], file); err != nil {
		os.Remove(file)
		s.finish(pos, "", err)
		return
	}
	s.finish(pos, file, nil)
}

func (s *Session) finish(pos int, file string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := s.items[pos]
	if err != nil {
		it.state = StateFailed
		it.err = err
	} else {
		it.state = StateReady
		it.file = file
	}
	close(it.done)
}

// WaitReady blocks until the position's audio reaches a terminal state and
// returns its file. If the worker has not claimed the position yet, the
// caller synthesizes it in-line instead of waiting its turn.
func (s *Session) WaitReady(ctx context.Context, pos int) (string, error) {
	s.mu.Lock()
	if pos < 0 || pos >= len(s.items) {
		s.mu.Unlock()
		return "", fmt.Errorf("position %d out of range", pos)
	}
	it := s.items[pos]
	claimed := false
	if it.state == StatePending {
		it.state = StateGenerating
		claimed = true
	}
	done := it.done
	s.mu.Unlock()

	if claimed {
		s.generate(ctx, pos)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-done:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if it.state == StateFailed {
		return "", fmt.Errorf("audio generation failed for position %d: %w", pos, it.err)
	}
	return it.file, nil
}

// StateOf returns the position's current state.
func (s *Session) StateOf(pos int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pos < 0 || pos >= len(s.items) {
		return StateFailed
	}
	return s.items[pos].state
}

// Consume returns the ready audio file for the position exactly once.
// A second Consume of the same position fails.
func (s *Session) Consume(pos int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos < 0 || pos >= len(s.items) {
		return "", fmt.Errorf("position %d out of range", pos)
	}
	it := s.items[pos]
	if it.state != StateReady {
		return "", fmt.Errorf("position %d is %s, not ready", pos, it.state)
	}
	if it.consumed {
		return "", fmt.Errorf("position %d already consumed", pos)
	}
	it.consumed = true
	return it.file, nil
}

// Invalidate stops the worker and deletes every generated audio file.
// The session cannot be reused afterwards.
func (s *Session) Invalidate() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.file != "" {
			os.Remove(it.file)
			it.file = ""
		}
	}
}
