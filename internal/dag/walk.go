package dag

import (
	"fmt"
	"strings"
)

// CycleError reports a dependency edge that leads back into the current walk
// path.
type CycleError struct {
	// Through is the node reached a second time.
	Through string
	Kind    EdgeKind
	// Path lists the cycle, starting and ending with Through.
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic %s through %s: %s", e.Kind, e.Through, strings.Join(e.Path, " -> "))
}

// MissingError reports a dependency pattern that matched no node.
type MissingError struct {
	From    string
	Pattern string
	Kind    EdgeKind
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s %q of %s matches nothing", e.Kind, e.Pattern, e.From)
}

// Walker visits nodes depth first, dependencies before dependents. Its state
// belongs to one walk: a node is visited at most once per Walker.
type Walker struct {
	graph  *Graph
	follow func(Edge) bool
	state  map[string]visitState
	stack  []string
}

// NewWalker creates a walker over g. Edges for which follow returns false are
// ignored; a nil follow keeps every edge.
func NewWalker(g *Graph, follow func(Edge) bool) *Walker {
	return &Walker{graph: g, follow: follow, state: make(map[string]visitState)}
}

// Walk visits id after all of its followed dependencies. A node counts as
// done once visit has been called for it, whatever visit returned. The first
// error stops the walk.
func (w *Walker) Walk(id string, visit func(id string) error) error {
	switch w.state[id] {
	case done:
		return nil
	case inStack:
		return &CycleError{Through: id, Path: w.cycleFrom(id)}
	}

	deps, err := w.graph.Dependencies(id)
	if err != nil {
		return err
	}

	w.state[id] = inStack
	w.stack = append(w.stack, id)

	for _, e := range deps {
		if w.follow != nil && !w.follow(e) {
			continue
		}
		if !e.Resolved() {
			return &MissingError{From: id, Pattern: e.Pattern, Kind: e.Kind}
		}
		switch w.state[e.To] {
		case done:
			continue
		case inStack:
			return &CycleError{Through: e.To, Kind: e.Kind, Path: w.cycleFrom(e.To)}
		}
		if err := w.Walk(e.To, visit); err != nil {
			return err
		}
	}

	w.stack = w.stack[:len(w.stack)-1]
	w.state[id] = done
	return visit(id)
}

func (w *Walker) cycleFrom(id string) []string {
	for i, s := range w.stack {
		if s == id {
			path := append([]string{}, w.stack[i:]...)
			return append(path, id)
		}
	}
	return []string{id, id}
}
