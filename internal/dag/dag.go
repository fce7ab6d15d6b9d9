package dag

import "fmt"

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{id: id}
}

// AddEdge records that fromID depends on toID. Self edges are allowed and
// show up as a cycle when walked.
func (g *Graph) AddEdge(fromID, toID, pattern string, kind EdgeKind) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	if _, ok := g.nodes[toID]; !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	fromNode.deps = append(fromNode.deps, Edge{From: fromID, To: toID, Pattern: pattern, Kind: kind})
	return nil
}

// AddUnresolved records a dependency of fromID whose pattern matched nothing.
func (g *Graph) AddUnresolved(fromID, pattern string, kind EdgeKind) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	fromNode.deps = append(fromNode.deps, Edge{From: fromID, Pattern: pattern, Kind: kind})
	return nil
}

// Dependencies returns the outgoing edges of id in declaration order.
func (g *Graph) Dependencies(id string) ([]Edge, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	deps := make([]Edge, len(n.deps))
	copy(deps, n.deps)
	return deps, nil
}

// Order returns every node reachable from roots through followed edges,
// dependencies before their dependents. Roots are walked in the given order.
func (g *Graph) Order(roots []string, follow func(Edge) bool) ([]string, error) {
	w := NewWalker(g, follow)
	var order []string
	for _, id := range roots {
		err := w.Walk(id, func(id string) error {
			order = append(order, id)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return order, nil
}
