// Package install runs the install commands of resolved items in dependency
// order.
//
// A run happens in two phases. Planning builds the dependency graph between
// candidate items, walks it from the selected items and prepares every
// command (shell wrapper rendered and split into arguments); any missing
// dependency, cycle or broken command stops the run before anything executes.
// Execution then runs the prepared commands in order through a Runner. With
// ContinueOnError a failed command is logged and recorded and the run moves
// on; an item is attempted at most once per run.
package install
