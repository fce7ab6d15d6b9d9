package selector

import (
	"fmt"

	"github.com/specialistvlad/dotgrid/internal/errs"
)

// Evaluator resolves an attribute key such as "whoami.username" to its
// current string value.
type Evaluator interface {
	Evaluate(key string) (string, error)
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(key string) (string, error)

func (f EvaluatorFunc) Evaluate(key string) (string, error) { return f(key) }

// Applies reports whether any alternative matches os and has all of its
// predicates satisfied. Every predicate of every alternative targeting os is
// evaluated; evaluation failures are returned together and never count as a
// non-match.
func (s Selectors) Applies(os OS, ev Evaluator) (bool, error) {
	var (
		matched bool
		failed  errs.Multi
	)
	for _, alt := range s {
		if alt.OS != Global && alt.OS != os {
			continue
		}
		all := true
		for _, pred := range alt.Predicates {
			actual, err := ev.Evaluate(pred.Key)
			if err != nil {
				failed.Append(fmt.Errorf("evaluating %q: %w", pred.Key, err))
				all = false
				continue
			}
			if !pred.Op.Matches(actual, pred.Value) {
				all = false
			}
		}
		if all {
			matched = true
		}
	}
	if err := failed.ErrorOrNil(); err != nil {
		return false, err
	}
	return matched, nil
}
