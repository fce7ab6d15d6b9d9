// Package app wires the resolver and the installer to a dotfiles tree on
// disk. It owns the configuration, the logger and the user-facing output,
// independent of the command line that drives it.
package app
