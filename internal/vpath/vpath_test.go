package vpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{name: "sibling through parent", base: "/a/b", ref: "../x", want: "/a/x"},
		{name: "absolute stays rooted", base: "/a/b/c", ref: "/a/x", want: "/a/x"},
		{name: "child", base: "/pkgs", ref: "foo", want: "/pkgs/foo"},
		{name: "dot segments collapse", base: "/pkgs", ref: "./foo/../bar", want: "/pkgs/bar"},
		{name: "glob passes through", base: "/pkgs/foo", ref: "../lib-*", want: "/pkgs/lib-*"},
		{name: "from root", base: "/", ref: "x", want: "/x"},
		{name: "redundant slashes", base: "/a//b/", ref: "c//d", want: "/a/b/c/d"},
		{name: "backslash parent", base: "/a/b", ref: `..\x`, want: "/a/x"},
		{name: "backslash rooted", base: "/a/b", ref: `\pkgs\foo`, want: "/pkgs/foo"},
		{name: "mixed separators", base: "/a", ref: `b\c/../d`, want: "/a/b/d"},
		{name: "escaped glob as class", base: "/pkgs", ref: "lib-[*]", want: "/pkgs/lib-[*]"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Resolve(tc.base, tc.ref)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolve_SameTargetFromDifferentDirectories(t *testing.T) {
	t.Parallel()

	fromB, err := Resolve("/a/b", "../x")
	require.NoError(t, err)
	fromC, err := Resolve("/a/b/c", "/a/x")
	require.NoError(t, err)

	assert.Equal(t, fromB, fromC)
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	_, err := Resolve("/a", "")
	var pathErr *Error
	require.ErrorAs(t, err, &pathErr)
	assert.Contains(t, pathErr.Error(), "empty")

	_, err = Resolve("/a", "../../x")
	require.ErrorAs(t, err, &pathErr)
	assert.Contains(t, pathErr.Error(), "escapes")

	_, err = Resolve("/a", `..\..\x`)
	require.ErrorAs(t, err, &pathErr)
	assert.Contains(t, pathErr.Error(), "escapes")
}

func TestAbsolutize(t *testing.T) {
	t.Parallel()

	got, err := Absolutize("a/./b/../c")
	require.NoError(t, err)
	assert.Equal(t, "/a/c", got)

	_, err = Absolutize("")
	assert.Error(t, err)
}

func TestAncestors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"/a/b", "/a", "/"}, Ancestors("/a/b"))
	assert.Equal(t, []string{"/"}, Ancestors("/"))
}

func TestFromRelative(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/pkgs/foo", FromRelative("pkgs/foo"))
	assert.Equal(t, "/", FromRelative("."))
	assert.Equal(t, "/", FromRelative(""))
}
