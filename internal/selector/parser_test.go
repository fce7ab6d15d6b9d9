package selector

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected Selectors
	}{
		{
			name:     "single os",
			input:    "linux",
			expected: Selectors{{OS: Linux}},
		},
		{
			name:     "global",
			input:    "global",
			expected: Selectors{{OS: Global}},
		},
		{
			name:     "alternatives with whitespace",
			input:    " linux |darwin  | windows ",
			expected: Selectors{{OS: Linux}, {OS: Darwin}, {OS: Windows}},
		},
		{
			name:  "comma separated attributes",
			input: `linux[whoami.username="alice", whoami.hostname!="build"]`,
			expected: Selectors{{OS: Linux, Predicates: []Predicate{
				{Key: "whoami.username", Op: Eq, Value: "alice"},
				{Key: "whoami.hostname", Op: NotEq, Value: "build"},
			}}},
		},
		{
			name:  "chained attribute blocks",
			input: `darwin[a ^= "x"] [b$="y"][c*="z"]`,
			expected: Selectors{{OS: Darwin, Predicates: []Predicate{
				{Key: "a", Op: StartsWith, Value: "x"},
				{Key: "b", Op: EndsWith, Value: "y"},
				{Key: "c", Op: Contains, Value: "z"},
			}}},
		},
		{
			name:     "empty block",
			input:    "windows[]",
			expected: Selectors{{OS: Windows}},
		},
		{
			name:  "escapes",
			input: `linux[k="a\"b\\c\/d\né"]`,
			expected: Selectors{{OS: Linux, Predicates: []Predicate{
				{Key: "k", Op: Eq, Value: "a\"b\\c/d\né"},
			}}},
		},
		{
			name:  "surrogate code point becomes replacement character",
			input: `linux[k="\ud800"]`,
			expected: Selectors{{OS: Linux, Predicates: []Predicate{
				{Key: "k", Op: Eq, Value: "�"},
			}}},
		},
		{
			name:  "pipe inside string is literal",
			input: `linux[k="a|b"] | darwin`,
			expected: Selectors{
				{OS: Linux, Predicates: []Predicate{{Key: "k", Op: Eq, Value: "a|b"}}},
				{OS: Darwin},
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			got, err := Parse(tc.input)

			// --- Assert ---
			require.NoError(t, err)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	input := `linux[whoami.username="alice"][os!="x"] | darwin`
	first, err := Parse(input)
	require.NoError(t, err)
	second, err := Parse(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_CanonicalStringRoundTrips(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"global",
		`linux[a="1"][b^="tab\there"]|darwin[]`,
		`windows[env.X*="\u0001\"q\""]`,
	}
	for _, input := range inputs {
		sel, err := Parse(input)
		require.NoError(t, err, input)

		again, err := Parse(sel.String())
		require.NoError(t, err, sel.String())
		assert.Equal(t, sel, again)
	}
}

func TestParse_GlobalCannotBeMixed(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"global|linux",
		"linux|global",
		"darwin | windows | global",
		`global[a="b"] | windows`,
	}
	for _, input := range inputs {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(input)

			var errs Errors
			require.ErrorAs(t, err, &errs)
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Reason, "global cannot be combined")
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		input      string
		errorCount int
		contains   string
	}{
		{name: "empty input", input: "", errorCount: 1, contains: "found end of input"},
		{name: "unknown os", input: "freebsd", errorCount: 1, contains: `found "freebsd"`},
		{name: "unterminated block", input: `linux[a="b"`, errorCount: 1, contains: `expected one of ",", "]"`},
		{name: "missing operator", input: `linux[a "b"]`, errorCount: 1, contains: `"^="`},
		{name: "unquoted value", input: `linux[a=b]`, errorCount: 1, contains: "quoted string"},
		{name: "trailing pipe", input: "linux|", errorCount: 1, contains: "end of input"},
		{name: "two broken alternatives", input: "windows[|linux[", errorCount: 2, contains: "2 selector errors"},
		{name: "bad escape", input: `linux[a="\q"]`, errorCount: 1, contains: `found 'q'`},
		{name: "junk after alternative", input: "linux darwin", errorCount: 1, contains: `expected one of "|"`},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tc.input)

			var errs Errors
			require.ErrorAs(t, err, &errs)
			assert.Len(t, errs, tc.errorCount)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestSyntaxError_Diagnostic(t *testing.T) {
	t.Parallel()

	_, err := Parse(`linux[a="b" | darwin`)
	var errs Errors
	require.ErrorAs(t, err, &errs)

	diags := errs.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "Invalid selector", diags[0].Summary)
	require.NotNil(t, diags[0].Subject)
	assert.Equal(t, SourceName, diags[0].Subject.Filename)
	assert.Equal(t, 12, diags[0].Subject.Start.Byte)
}
