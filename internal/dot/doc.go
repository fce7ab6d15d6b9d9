// Package dot models the contents of dot files and reduces them to one
// canonical value.
//
// A dot document comes in one of two shapes. The explicit shape maps selector
// expressions to capability blocks:
//
//	linux:
//	  installs: apt install vim
//	darwin:
//	  installs: brew install vim
//
// The simplified shape is a single capability block that applies everywhere
// and is filed under the "global" selector:
//
//	links:
//	  .vimrc: ~/.vimrc
//	installs: false
//
// Parse tries the explicit shape first and falls back to the simplified one.
// Canonicalize then walks the blocks in document order, keeps those whose
// selectors apply to the current environment and folds them with Merge.
package dot
