package testutil

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/specialistvlad/glcompile/internal/vccmd"
)

// Outcome is one scripted result of a fake tool run.
type Outcome struct {
	Launched bool
	Output   string
	// Produce lists files the fake tool creates before returning.
	Produce []string
}

// FakeLauncher replays scripted outcomes instead of spawning the compiler
// tool. Once the script is exhausted the last outcome repeats. It records
// every command it receives.
type FakeLauncher struct {
	mu       sync.Mutex
	outcomes []Outcome
	calls    []vccmd.Command
}

// NewFakeLauncher creates a launcher that replays the given outcomes.
func NewFakeLauncher(outcomes ...Outcome) *FakeLauncher {
	return &FakeLauncher{outcomes: outcomes}
}

// Launch implements invoker.Launcher.
func (f *FakeLauncher) Launch(_ context.Context, cmd vccmd.Command) (bool, string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, cmd)
	if len(f.outcomes) == 0 {
		return false, ""
	}
	idx := len(f.calls) - 1
	if idx >= len(f.outcomes) {
		idx = len(f.outcomes) - 1
	}
	o := f.outcomes[idx]
	for _, p := range o.Produce {
		_ = os.WriteFile(p, []byte("artifact"), 0o600)
	}
	return o.Launched, o.Output
}

// Calls returns a copy of the commands received so far.
func (f *FakeLauncher) Calls() []vccmd.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]vccmd.Command(nil), f.calls...)
}

// SleepRecorder records backoff sleeps instead of waiting.
type SleepRecorder struct {
	mu    sync.Mutex
	slept []time.Duration
}

// Sleep matches retry.Policy.Sleep.
func (r *SleepRecorder) Sleep(_ context.Context, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slept = append(r.slept, d)
}

// Slept returns a copy of the recorded durations.
func (r *SleepRecorder) Slept() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.slept...)
}
