// Package reminder nags the user about new papers during working hours,
// at most once per clock hour, on weekdays only.
package reminder

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	stampFile   = "last_reminder.txt"
	stampFormat = "2006-01-02 15"
)

// Notifier is called when a reminder fires. count is the number of new
// papers found by the check.
type Notifier func(count int)

// Checker looks for new papers and reports how many were found.
type Checker func(ctx context.Context) (int, error)

// Config controls when reminders may fire.
type Config struct {
	StartHour int // first hour of the reminder window, inclusive
	EndHour   int // end of the window, exclusive
	DataDir   string

	// Enabled is consulted on every tick, so the setting can be toggled
	// while the loop runs. Nil means always enabled.
	Enabled func() bool
}

// DefaultConfig returns a 9-to-5 weekday reminder window.
func DefaultConfig(dataDir string) Config {
	return Config{
		StartHour: 9,
		EndHour:   17,
		DataDir:   dataDir,
	}
}

// Reminder runs the periodic check loop.
type Reminder struct {
	config Config
	check  Checker
	notify Notifier

	mu        sync.Mutex
	skipToday bool
	skipDate  string // yyyy-mm-dd the skip applies to
	now       func() time.Time
	tickEvery time.Duration
}

// New creates a Reminder that calls check each tick inside the window and
// notify when new papers are found.
func New(config Config, check Checker, notify Notifier) *Reminder {
	return &Reminder{
		config:    config,
		check:     check,
		notify:    notify,
		now:       time.Now,
		tickEvery: time.Minute,
	}
}

// SkipToday suppresses reminders for the rest of today. The skip clears
// automatically once the reminder window ends.
func (r *Reminder) SkipToday() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipToday = true
	r.skipDate = r.now().Format("2006-01-02")
}

// Run loops until the context is canceled, firing at most one reminder
// per clock hour.
func (r *Reminder) Run(ctx context.Context) {
	ticker := time.NewTicker(r.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick performs one reminder check. Split out for testing.
func (r *Reminder) tick(ctx context.Context) {
	if r.config.Enabled != nil && !r.config.Enabled() {
		return
	}
	now := r.now()

	if !r.inWindow(now) {
		r.clearExpiredSkip(now)
		return
	}
	if r.skipped(now) {
		return
	}
	if r.firedThisHour(now) {
		return
	}

	count, err := r.check(ctx)
	if err != nil {
		log.Printf("Reminder check failed: %v", err)
		// Back off until the next hour rather than hammering the API.
		r.writeStamp(now)
		return
	}
	if count == 0 {
		r.writeStamp(now)
		return
	}

	r.writeStamp(now)
	if r.notify != nil {
		r.notify(count)
	}
}

// inWindow reports whether now falls in the weekday reminder window.
func (r *Reminder) inWindow(now time.Time) bool {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	hour := now.Hour()
	return hour >= r.config.StartHour && hour < r.config.EndHour
}

// skipped reports whether the user asked to skip today's reminders.
func (r *Reminder) skipped(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipToday && r.skipDate == now.Format("2006-01-02")
}

// clearExpiredSkip drops the skip flag once the window has passed, so
// tomorrow's reminders fire normally.
func (r *Reminder) clearExpiredSkip(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.skipToday && (r.skipDate != now.Format("2006-01-02") || now.Hour() >= r.config.EndHour) {
		r.skipToday = false
		r.skipDate = ""
	}
}

func (r *Reminder) stampPath() string {
	return filepath.Join(r.config.DataDir, stampFile)
}

// firedThisHour reports whether a reminder already fired in this clock
// hour, using the stamp file so restarts do not re-fire.
func (r *Reminder) firedThisHour(now time.Time) bool {
	data, err := os.ReadFile(r.stampPath())
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == now.Format(stampFormat)
}

func (r *Reminder) writeStamp(now time.Time) {
	if err := os.MkdirAll(r.config.DataDir, 0o755); err != nil {
		log.Printf("Failed to create reminder directory: %v", err)
		return
	}
	if err := os.WriteFile(r.stampPath(), []byte(now.Format(stampFormat)), 0o644); err != nil {
		log.Printf("Failed to write reminder stamp: %v", err)
	}
}
