package dag

import "sync"

// EdgeKind tells where a dependency was declared.
type EdgeKind int

const (
	// EdgeInstall comes from installs.depends.
	EdgeInstall EdgeKind = iota
	// EdgeDepends comes from the item's generic depends.
	EdgeDepends
)

func (k EdgeKind) String() string {
	if k == EdgeInstall {
		return "install dependency"
	}
	return "dependency"
}

// Edge points from a dependent node to the node it depends on.
type Edge struct {
	From string
	// To is empty when Pattern matched no node.
	To      string
	Pattern string
	Kind    EdgeKind
}

// Resolved reports whether the edge points at a node.
func (e Edge) Resolved() bool { return e.To != "" }

// Graph is a collection of nodes and their dependencies. All operations on
// the graph are concurrency-safe.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
}

type node struct {
	id string
	// deps are the outgoing edges in declaration order.
	deps []Edge
}

// visitState is the progress of a node within one walk.
type visitState int

const (
	notVisited visitState = iota
	inStack
	done
)
