package format

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}

func TestFromPath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		path     string
		expected Format
		ok       bool
	}{
		{path: "/pkgs/foo/dot.yaml", expected: YAML, ok: true},
		{path: "dot.yml", expected: YAML, ok: true},
		{path: "defaults.TOML", expected: TOML, ok: true},
		{path: "dot.json", expected: JSON, ok: true},
		{path: "dot.hcl", expected: HCL, ok: true},
		{path: "dot.txt", ok: false},
		{path: "dot", ok: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			got, ok := FromPath(tc.path)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

func TestDecode_PreservesKeyOrder(t *testing.T) {
	t.Parallel()

	want := []string{"windows", "global", "linux|darwin"}

	testCases := []struct {
		name   string
		format Format
		text   string
	}{
		{
			name:   "yaml",
			format: YAML,
			text: `
windows:
  installs: a
global:
  installs: b
linux|darwin:
  installs: c
`,
		},
		{
			name:   "toml",
			format: TOML,
			text: `
windows.installs = "a"

[global]
installs = "b"

["linux|darwin"]
installs = "c"
`,
		},
		{
			name:   "json with comments",
			format: JSON,
			text: `{
  // first
  "windows": {"installs": "a"},
  "global": {"installs": "b"}, /* second */
  "linux|darwin": {"installs": "c"},
}`,
		},
		{
			name:   "hcl",
			format: HCL,
			text: `
selector "windows" {
  installs = "a"
}
selector "global" {
  installs = "b"
}
selector "linux|darwin" {
  installs = "c"
}
`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			entries, err := Decode([]byte(tc.text), "dot."+tc.format.String(), tc.format)

			require.NoError(t, err)
			assert.Equal(t, want, keys(entries))
			assert.Equal(t, map[string]any{"installs": "b"}, entries[1].Value)
		})
	}
}

func TestDecode_GenericValues(t *testing.T) {
	t.Parallel()

	expected := []Entry{
		{Key: "links", Value: map[string]any{
			".vimrc": "~/.vimrc",
			"init":   []any{"~/.config/a", "~/.config/b"},
		}},
		{Key: "installs", Value: false},
		{Key: "depends", Value: []any{"../base"}},
	}

	testCases := []struct {
		name   string
		format Format
		text   string
	}{
		{
			name:   "yaml",
			format: YAML,
			text: `
links:
  .vimrc: ~/.vimrc
  init: [~/.config/a, ~/.config/b]
installs: false
depends: [../base]
`,
		},
		{
			name:   "toml",
			format: TOML,
			text: `
installs = false
depends = ["../base"]

[links]
".vimrc" = "~/.vimrc"
init = ["~/.config/a", "~/.config/b"]
`,
		},
		{
			name:   "json",
			format: JSON,
			text:   `{"links": {".vimrc": "~/.vimrc", "init": ["~/.config/a", "~/.config/b"]}, "installs": false, "depends": ["../base"]}`,
		},
		{
			name:   "hcl",
			format: HCL,
			text: `
links = {
  ".vimrc" = "~/.vimrc"
  init     = ["~/.config/a", "~/.config/b"]
}
installs = false
depends  = ["../base"]
`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			entries, err := Decode([]byte(tc.text), "", tc.format)
			require.NoError(t, err)

			got := AsMap(entries)
			for _, e := range expected {
				if diff := cmp.Diff(e.Value, got[e.Key]); diff != "" {
					t.Errorf("value of %q mismatch (-want +got):\n%s", e.Key, diff)
				}
			}
			assert.Len(t, entries, len(expected))
		})
	}
}

func TestDecode_HCLNestedBlocks(t *testing.T) {
	t.Parallel()

	text := `
depends = ["a"]

selector "linux" {
  installs {
    cmd     = "apt install foo"
    depends = ["b"]
  }
}
`
	entries, err := Decode([]byte(text), "dot.hcl", HCL)

	require.NoError(t, err)
	require.Equal(t, []string{"depends", "linux"}, keys(entries))
	assert.Equal(t, map[string]any{
		"installs": map[string]any{"cmd": "apt install foo", "depends": []any{"b"}},
	}, entries[1].Value)
}

func TestDecode_Empty(t *testing.T) {
	t.Parallel()

	for _, f := range []Format{YAML, TOML, JSON, HCL} {
		entries, err := Decode([]byte("\n"), "", f)
		require.NoError(t, err, f.String())
		assert.Empty(t, entries, f.String())
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		format   Format
		text     string
		line     int
		contains string
	}{
		{name: "yaml scalar top level", format: YAML, text: "just text", line: 1, contains: "mapping"},
		{name: "yaml syntax", format: YAML, text: "a: [1, 2", contains: "invalid yaml"},
		{name: "yaml duplicate", format: YAML, text: "linux: {installs: a}\ndarwin: {installs: b}\nlinux: {depends: [x]}\n", line: 3, contains: `duplicate key "linux"`},
		{name: "toml syntax", format: TOML, text: "a = \nb = 1", contains: "invalid toml"},
		{name: "json array top level", format: JSON, text: "[1]", contains: "object"},
		{name: "json syntax", format: JSON, text: "{\n\"a\": }", contains: "invalid json"},
		{name: "json duplicate", format: JSON, text: `{"a": 1, "a": 2}`, contains: "duplicate"},
		{name: "json trailing data", format: JSON, text: `{"linux": {}} garbage`, contains: "after the top-level object"},
		{name: "json second object", format: JSON, text: `{"linux": {}} {}`, contains: "after the top-level object"},
		{name: "hcl syntax", format: HCL, text: "a = ", line: 1, contains: "invalid hcl"},
		{name: "hcl variables are not allowed", format: HCL, text: "a = b", line: 1, contains: "Variables not allowed"},
		{name: "hcl two labels", format: HCL, text: `selector "a" "b" {}`, line: 1, contains: "Unexpected block labels"},
		{name: "hcl duplicate", format: HCL, text: "linux {}\nlinux {}", line: 2, contains: "Duplicate"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode([]byte(tc.text), "file", tc.format)

			var formatErr *Error
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, tc.format, formatErr.Format)
			assert.Contains(t, err.Error(), tc.contains)
			if tc.line > 0 {
				assert.Equal(t, tc.line, formatErr.Line)
			}
		})
	}
}
