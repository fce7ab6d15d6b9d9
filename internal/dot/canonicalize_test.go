package dot

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/dotgrid/internal/format"
	"github.com/specialistvlad/dotgrid/internal/selector"
)

var staticEvaluator = selector.EvaluatorFunc(func(key string) (string, error) {
	switch key {
	case "whoami.username":
		return "alice", nil
	default:
		return "", errors.New("unknown key " + key)
	}
})

func canonicalize(t *testing.T, text string, os selector.OS) Capabilities {
	t.Helper()
	doc, err := Parse([]byte(text), "dot.yaml", format.YAML)
	require.NoError(t, err)
	caps, err := Canonicalize(doc, os, staticEvaluator)
	require.NoError(t, err)
	return caps
}

func TestCanonicalize_DisabledThenReenabled(t *testing.T) {
	t.Parallel()

	text := `
global:
  installs: a
linux:
  installs: false
linux[whoami.username="alice"]:
  installs: c
`
	assert.Equal(t, Present{Cmd: "c", Depends: Set{}}, canonicalize(t, text, selector.Linux).Installs)
	assert.Equal(t, Present{Cmd: "a", Depends: Set{}}, canonicalize(t, text, selector.Darwin).Installs)
}

func TestCanonicalize_DisabledWinsWhenLast(t *testing.T) {
	t.Parallel()

	text := `
global:
  installs: {cmd: a, depends: [x]}
linux:
  installs: false
`
	assert.Equal(t, Disabled{}, canonicalize(t, text, selector.Linux).Installs)
}

func TestCanonicalize_DocumentOrderIsTheTieBreaker(t *testing.T) {
	t.Parallel()

	text := `
linux:
  installs: specific
global:
  installs: generic
`
	assert.Equal(t, Present{Cmd: "generic", Depends: Set{}}, canonicalize(t, text, selector.Linux).Installs)
}

func TestCanonicalize_MergesEveryApplyingBlock(t *testing.T) {
	t.Parallel()

	text := `
global:
  links:
    .zshrc: ~/.zshrc
  depends: [../base]
linux|darwin:
  links:
    .zshrc: ~/.config/zsh/.zshrc
  installs: {cmd: install zsh, depends: [../brew]}
windows:
  depends: [../never]
`
	expected := Capabilities{
		Links:    map[string]Set{".zshrc": NewSet("~/.zshrc", "~/.config/zsh/.zshrc")},
		Installs: Present{Cmd: "install zsh", Depends: NewSet("../brew")},
		Depends:  NewSet("../base"),
	}

	got := canonicalize(t, text, selector.Darwin)

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Canonicalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestCanonicalize_NothingApplies(t *testing.T) {
	t.Parallel()

	got := canonicalize(t, "windows:\n  installs: x\n", selector.Linux)

	assert.Equal(t, Capabilities{}, got)
}

func TestCanonicalize_EvaluationErrorFails(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("linux[nope.key=\"x\"]:\n  installs: x\n"), "dot.yaml", format.YAML)
	require.NoError(t, err)

	_, err = Canonicalize(doc, selector.Linux, staticEvaluator)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.key")
}
