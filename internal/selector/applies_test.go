package selector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapEvaluator(values map[string]string) Evaluator {
	return EvaluatorFunc(func(key string) (string, error) {
		v, ok := values[key]
		if !ok {
			return "", errors.New("unknown key " + key)
		}
		return v, nil
	})
}

func TestSelectors_Applies(t *testing.T) {
	t.Parallel()

	ev := mapEvaluator(map[string]string{
		"whoami.username": "alice",
		"whoami.hostname": "alice-laptop",
	})

	testCases := []struct {
		name     string
		selector string
		os       OS
		expected bool
	}{
		{name: "global applies everywhere", selector: "global", os: Darwin, expected: true},
		{name: "matching os", selector: "linux", os: Linux, expected: true},
		{name: "other os", selector: "windows", os: Linux, expected: false},
		{name: "any alternative", selector: "windows | linux", os: Linux, expected: true},
		{name: "equal attribute", selector: `linux[whoami.username="alice"]`, os: Linux, expected: true},
		{name: "failing attribute", selector: `linux[whoami.username="bob"]`, os: Linux, expected: false},
		{name: "all attributes must hold", selector: `linux[whoami.username="alice"][whoami.hostname$="-desktop"]`, os: Linux, expected: false},
		{name: "starts with", selector: `linux[whoami.hostname^="alice"]`, os: Linux, expected: true},
		{name: "contains", selector: `linux[whoami.hostname*="-lap"]`, os: Linux, expected: true},
		{name: "not equal", selector: `linux[whoami.username!="bob"]`, os: Linux, expected: true},
		{name: "attribute on global", selector: `global[whoami.username="alice"]`, os: Windows, expected: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sel, err := Parse(tc.selector)
			require.NoError(t, err)

			got, err := sel.Applies(tc.os, ev)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSelectors_AppliesSurfacesEvaluationErrors(t *testing.T) {
	t.Parallel()

	sel, err := Parse(`linux[missing.one="x"] | linux[missing.two="y"] | linux`)
	require.NoError(t, err)

	ok, err := sel.Applies(Linux, mapEvaluator(nil))

	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "missing.one")
	assert.Contains(t, err.Error(), "missing.two")
}

func TestSelectors_AppliesSkipsOtherOperatingSystems(t *testing.T) {
	t.Parallel()

	sel, err := Parse(`windows[never.rendered="x"] | linux`)
	require.NoError(t, err)

	ok, err := sel.Applies(Linux, mapEvaluator(nil))

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOperator_Matches(t *testing.T) {
	t.Parallel()

	assert.True(t, Eq.Matches("a", "a"))
	assert.False(t, Eq.Matches("a", "b"))
	assert.True(t, StartsWith.Matches("abc", "ab"))
	assert.True(t, EndsWith.Matches("abc", "bc"))
	assert.True(t, Contains.Matches("abc", "b"))
	assert.True(t, NotEq.Matches("a", "b"))
	assert.False(t, Operator(99).Matches("a", "a"))
}
