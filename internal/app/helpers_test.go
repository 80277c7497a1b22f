package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/glcompile/internal/invoker"
	"github.com/specialistvlad/glcompile/internal/testutil"
	"github.com/specialistvlad/glcompile/internal/vccmd"
	"github.com/stretchr/testify/require"
)

// fakeTool behaves like the compiler tool: it writes every output file named
// in the command and fails when an input shader contains "#error".
type fakeTool struct {
	mu       sync.Mutex
	commands []vccmd.Command
	version  string
}

func (f *fakeTool) Launch(_ context.Context, cmd vccmd.Command) (bool, string) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()

	fields, err := vccmd.Decode(cmd.Arg)
	if err != nil {
		return true, "ERROR: bad command line"
	}
	if fields.Value("version") != "" {
		return true, f.version
	}

	for _, field := range fields {
		if field.Value == "" || !strings.HasPrefix(field.Name, "input.") {
			continue
		}
		src, err := os.ReadFile(field.Value)
		if err != nil {
			return true, "ERROR: cannot open " + field.Value
		}
		if strings.Contains(string(src), "#error") {
			return true, "ERROR: 0:1: '#error' : user error"
		}
	}

	for _, field := range fields {
		if field.Value == "" {
			continue
		}
		switch {
		case field.Name == "binary",
			strings.HasPrefix(field.Name, "isa."),
			strings.HasPrefix(field.Name, "il."),
			strings.HasPrefix(field.Name, "stats."):
			_ = os.WriteFile(field.Value, []byte(field.Name), 0o644)
		}
	}
	return true, "Compilation successful"
}

func (f *fakeTool) Commands() []vccmd.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]vccmd.Command(nil), f.commands...)
}

var _ invoker.Launcher = (*fakeTool)(nil)

// setupAppTest writes the given job files into a temp dir and creates an app
// around them with instant retries.
func setupAppTest(t *testing.T, cfg Config, files map[string]string, opts ...Option) (*App, *testutil.SafeBuffer, string) {
	t.Helper()

	root := t.TempDir()
	testutil.WriteFiles(t, root, files)
	if cfg.JobsPath == "" && cfg.Mode == ModeCompile {
		cfg.JobsPath = root
	} else if cfg.JobsPath != "" && !filepath.IsAbs(cfg.JobsPath) {
		cfg.JobsPath = filepath.Join(root, cfg.JobsPath)
	}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	config, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &testutil.SafeBuffer{}
	opts = append([]Option{WithSleep(func(context.Context, time.Duration) {})}, opts...)
	testApp, err := NewApp(context.Background(), out, config, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("GLC_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), out.String())
		}
	})

	return testApp, out, root
}
