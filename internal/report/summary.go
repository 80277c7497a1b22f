package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/specialistvlad/glcompile/internal/status"
)

// SummaryWriter prints one line per job and a totals line on Close.
type SummaryWriter struct {
	mu     sync.Mutex
	w      io.Writer
	total  int
	failed int
	bytes  int64
}

// NewSummaryWriter creates a SummaryWriter that prints to w.
func NewSummaryWriter(w io.Writer) *SummaryWriter {
	return &SummaryWriter{w: w}
}

// Report implements Reporter.
func (s *SummaryWriter) Report(_ context.Context, res JobResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	size := res.TotalSize()
	s.bytes += size

	mark := "ok"
	if res.Status != status.Success {
		s.failed++
		mark = "FAIL"
	}

	line := fmt.Sprintf("%-4s %s on %s: %s in %s, %d artifacts (%s)",
		mark, res.Job, res.Device, res.Status, res.Elapsed.Round(time.Millisecond),
		len(res.Artifacts), humanize.Bytes(uint64(size)))
	if _, err := fmt.Fprintln(s.w, line); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if res.Diagnostic != "" {
		for _, l := range strings.Split(strings.TrimRight(res.Diagnostic, "\n"), "\n") {
			if _, err := fmt.Fprintf(s.w, "     | %s\n", l); err != nil {
				return fmt.Errorf("failed to write summary: %w", err)
			}
		}
	}
	return nil
}

// Close implements Reporter by printing the totals.
func (s *SummaryWriter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := fmt.Fprintf(s.w, "%s jobs, %s failed, %s written\n",
		humanize.Comma(int64(s.total)), humanize.Comma(int64(s.failed)), humanize.Bytes(uint64(s.bytes)))
	return err
}
