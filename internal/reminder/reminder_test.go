package reminder

import (
	"context"
	"errors"
	"testing"
	"time"
)

// A Tuesday at 10:30, inside the default window.
var workingHour = time.Date(2024, 1, 16, 10, 30, 0, 0, time.UTC)

func newTestReminder(t *testing.T, check Checker, notify Notifier) *Reminder {
	t.Helper()
	r := New(DefaultConfig(t.TempDir()), check, notify)
	r.now = func() time.Time { return workingHour }
	return r
}

func TestTickFiresOncePerHour(t *testing.T) {
	var notified int
	r := newTestReminder(t,
		func(ctx context.Context) (int, error) { return 3, nil },
		func(count int) { notified++ },
	)

	ctx := context.Background()
	r.tick(ctx)
	r.tick(ctx)
	r.tick(ctx)

	if notified != 1 {
		t.Errorf("notified %d times in one hour, want 1", notified)
	}

	// The next hour fires again.
	r.now = func() time.Time { return workingHour.Add(time.Hour) }
	r.tick(ctx)
	if notified != 2 {
		t.Errorf("notified %d times across two hours, want 2", notified)
	}
}

func TestTickOutsideWindow(t *testing.T) {
	var notified int
	r := newTestReminder(t,
		func(ctx context.Context) (int, error) { return 3, nil },
		func(count int) { notified++ },
	)

	tests := []struct {
		name string
		now  time.Time
	}{
		{"before start hour", time.Date(2024, 1, 16, 8, 59, 0, 0, time.UTC)},
		{"at end hour", time.Date(2024, 1, 16, 17, 0, 0, 0, time.UTC)},
		{"saturday", time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC)},
		{"sunday", time.Date(2024, 1, 21, 10, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.now = func() time.Time { return tt.now }
			r.tick(context.Background())
			if notified != 0 {
				t.Errorf("reminder fired at %v", tt.now)
			}
		})
	}
}

func TestEnabledConsultedEachTick(t *testing.T) {
	enabled := false
	var checks, notified int
	r := newTestReminder(t,
		func(ctx context.Context) (int, error) {
			checks++
			return 3, nil
		},
		func(count int) { notified++ },
	)
	r.config.Enabled = func() bool { return enabled }

	ctx := context.Background()
	r.tick(ctx)
	if checks != 0 || notified != 0 {
		t.Fatal("reminder ran while disabled")
	}

	// Enabling mid-run takes effect on the next tick.
	enabled = true
	r.tick(ctx)
	if notified != 1 {
		t.Errorf("notified %d times after enabling, want 1", notified)
	}

	// Disabling again stops further checks even in a fresh hour.
	enabled = false
	r.now = func() time.Time { return workingHour.Add(time.Hour) }
	r.tick(ctx)
	if checks != 1 {
		t.Errorf("check ran %d times, want 1 (disabled ticks must not check)", checks)
	}
}

func TestTickNoNewPapers(t *testing.T) {
	var notified int
	r := newTestReminder(t,
		func(ctx context.Context) (int, error) { return 0, nil },
		func(count int) { notified++ },
	)

	r.tick(context.Background())
	if notified != 0 {
		t.Error("reminder fired with zero new papers")
	}
}

func TestTickCheckErrorBacksOff(t *testing.T) {
	var checks, notified int
	r := newTestReminder(t,
		func(ctx context.Context) (int, error) {
			checks++
			return 0, errors.New("network down")
		},
		func(count int) { notified++ },
	)

	ctx := context.Background()
	r.tick(ctx)
	r.tick(ctx)

	if checks != 1 {
		t.Errorf("check ran %d times after an error in the same hour, want 1", checks)
	}
	if notified != 0 {
		t.Error("reminder fired despite check error")
	}
}

func TestSkipToday(t *testing.T) {
	var notified int
	r := newTestReminder(t,
		func(ctx context.Context) (int, error) { return 3, nil },
		func(count int) { notified++ },
	)

	r.SkipToday()
	r.tick(context.Background())
	if notified != 0 {
		t.Error("reminder fired despite SkipToday()")
	}

	// After the window ends the skip clears, so the next day fires.
	r.now = func() time.Time { return time.Date(2024, 1, 16, 17, 5, 0, 0, time.UTC) }
	r.tick(context.Background())

	r.now = func() time.Time { return workingHour.AddDate(0, 0, 1) }
	r.tick(context.Background())
	if notified != 1 {
		t.Errorf("notified %d times the day after a skip, want 1", notified)
	}
}

func TestStampSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	var notified int
	check := func(ctx context.Context) (int, error) { return 1, nil }
	notify := func(count int) { notified++ }

	r := New(DefaultConfig(dir), check, notify)
	r.now = func() time.Time { return workingHour }
	r.tick(context.Background())
	if notified != 1 {
		t.Fatalf("first reminder did not fire")
	}

	// A new Reminder over the same data dir sees the stamp.
	restarted := New(DefaultConfig(dir), check, notify)
	restarted.now = func() time.Time { return workingHour.Add(10 * time.Minute) }
	restarted.tick(context.Background())
	if notified != 1 {
		t.Errorf("reminder re-fired after restart within the same hour")
	}
}
