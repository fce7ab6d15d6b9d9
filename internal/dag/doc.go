// Package dag holds the dependency graph between dot items and the
// depth-first walk that orders them.
//
// Edges are labelled with the kind of dependency they come from and keep the
// order in which they were declared, so a walk visits dependencies
// deterministically. A dependency pattern that matched nothing is kept as an
// unresolved edge and reported when a walk reaches it.
package dag
