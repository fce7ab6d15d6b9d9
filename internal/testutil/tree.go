// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/dotgrid/internal/ctxlog"
	"github.com/specialistvlad/dotgrid/internal/templating"
)

// NewTree builds an in-memory dotfiles tree from slash-separated paths
// relative to the root and their contents.
func NewTree(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	tree := memfs.New()
	for name, content := range files {
		err := util.WriteFile(tree, "/"+strings.TrimPrefix(name, "/"), []byte(content), 0o644)
		require.NoError(t, err, "failed to write %s", name)
	}
	return tree
}

// LogBuffer is a goroutine-safe sink for test log output.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Context returns a context carrying a debug-level text logger that writes to
// the returned buffer.
func Context(t *testing.T) (context.Context, *LogBuffer) {
	t.Helper()
	logs := &LogBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), logs
}

// Facts is a fixed environment for deterministic rendering.
func Facts() templating.Facts {
	return templating.Facts{
		OS:  "linux",
		Env: map[string]string{"HOME": "/home/alice"},
		Whoami: templating.Whoami{
			Username: "alice",
			Hostname: "alice-laptop",
			Platform: "linux",
			Arch:     "amd64",
		},
		Dirs: templating.Dirs{Home: "/home/alice", Config: "/home/alice/.config", Cache: "/home/alice/.cache"},
	}
}

// Engine returns a template engine over Facts.
func Engine() *templating.Engine {
	return templating.NewEngine(Facts())
}
