package fsutil

import (
	"path"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFiles(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tree := memfs.New()
	for _, name := range []string{
		"/zsh/dot.yaml",
		"/pkgs/foo/dot.toml",
		"/pkgs/defaults.yaml",
		"/pkgs/foo/README.md",
		"/.git/dot.yaml",
	} {
		require.NoError(t, util.WriteFile(tree, name, []byte("x"), 0o644))
	}

	// --- Act ---
	found, err := FindFiles(tree, func(rel string) bool {
		return path.Ext(rel) != ".md"
	})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"pkgs/defaults.yaml", "pkgs/foo/dot.toml", "zsh/dot.yaml"}, found)
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	tree := memfs.New()
	require.NoError(t, util.WriteFile(tree, "/a/b.txt", []byte("hello"), 0o644))

	data, err := ReadFile(tree, "a/b.txt")

	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
