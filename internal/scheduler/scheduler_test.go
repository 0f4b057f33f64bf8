package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dshills/globenav/internal/input"
)

type fakeTicker struct {
	would bool
	modes []input.Mode
}

func (f *fakeTicker) Tick(mode input.Mode) bool {
	f.modes = append(f.modes, mode)
	return f.would
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestPoll(t *testing.T) {
	tests := []struct {
		name       string
		would      bool
		advance    time.Duration
		wantMode   input.Mode
		wantRedraw bool
	}{
		{"interval elapsed", false, 35 * time.Millisecond, input.ModeGenerate, true},
		{"early and idle", false, 10 * time.Millisecond, input.ModeQuery, false},
		{"early and active", true, 10 * time.Millisecond, input.ModeQuery, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{now: time.Unix(1000, 0)}
			tk := &fakeTicker{would: tt.would}
			redraws := 0
			f := New(tk, WithClock(clock.Now), WithRedraw(func() { redraws++ }))

			// First poll always applies.
			f.Poll()
			tk.modes = nil
			redraws = 0

			clock.advance(tt.advance)
			if got := f.Poll(); got != tt.wantRedraw {
				t.Errorf("Poll() = %v, want %v", got, tt.wantRedraw)
			}
			if len(tk.modes) != 1 || tk.modes[0] != tt.wantMode {
				t.Errorf("modes = %v, want [%v]", tk.modes, tt.wantMode)
			}
			if (redraws == 1) != tt.wantRedraw {
				t.Errorf("redraws = %d, want redraw %v", redraws, tt.wantRedraw)
			}
		})
	}
}

func TestPollUpdatesLastTick(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	tk := &fakeTicker{}
	f := New(tk, WithClock(clock.Now), WithInterval(50*time.Millisecond))

	f.Poll()
	first := f.LastTick()
	clock.advance(30 * time.Millisecond)
	f.Poll()
	if !f.LastTick().Equal(first) {
		t.Errorf("LastTick() moved on a query poll")
	}
	clock.advance(20 * time.Millisecond)
	f.Poll()
	if !f.LastTick().Equal(clock.now) {
		t.Errorf("LastTick() = %v, want %v", f.LastTick(), clock.now)
	}
}

func TestSetInterval(t *testing.T) {
	f := New(&fakeTicker{})
	if f.Interval() != DefaultInterval {
		t.Errorf("Interval() = %v, want %v", f.Interval(), DefaultInterval)
	}
	f.SetInterval(0)
	if f.Interval() != DefaultInterval {
		t.Errorf("Interval() after SetInterval(0) = %v, want unchanged", f.Interval())
	}
	f.SetInterval(time.Second)
	if f.Interval() != time.Second {
		t.Errorf("Interval() = %v, want 1s", f.Interval())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	tk := &fakeTicker{}
	f := New(tk, WithInterval(time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := f.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() = %v, want deadline exceeded", err)
	}
	if len(tk.modes) == 0 {
		t.Error("Run() never ticked")
	}
}
