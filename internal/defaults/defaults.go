// Package defaults indexes the directory-scoped defaults files of a dotfiles
// tree. A defaults file applies to every item at or below its directory; the
// nearest one wins and is never merged with defaults further up.
package defaults

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/specialistvlad/dotgrid/internal/ctxlog"
	"github.com/specialistvlad/dotgrid/internal/format"
	"github.com/specialistvlad/dotgrid/internal/fsutil"
	"github.com/specialistvlad/dotgrid/internal/vpath"
)

const (
	// FileStem is the base name of a defaults file.
	FileStem = "defaults"
	// LegacyStem is the deprecated base name still accepted.
	LegacyStem = "dots"
)

// Source is the unrendered text of one defaults file.
type Source struct {
	// Path is the slash-separated path relative to the tree root.
	Path string
	// Dir is the virtual absolute directory the file applies to.
	Dir    string
	Text   []byte
	Format format.Format
	Legacy bool
}

// Index maps virtual directories to their defaults file.
type Index struct {
	byDir map[string]Source
}

// IsFile reports whether the slash-separated relative path names a defaults
// file, legacy names included.
func IsFile(rel string) bool {
	_, _, ok := classify(rel)
	return ok
}

// Build registers every defaults file among files, the sorted relative paths
// found by one walk of tree. Other paths are skipped.
func Build(ctx context.Context, tree billy.Filesystem, files []string) (*Index, error) {
	logger := ctxlog.FromContext(ctx)

	ix := &Index{byDir: make(map[string]Source)}
	ranks := make(map[string]int)
	for _, rel := range files {
		f, legacy, ok := classify(rel)
		if !ok {
			continue
		}
		if legacy {
			replacement := FileStem + path.Ext(rel)
			logger.Warn("Defaults: Deprecated filename, rename it.", "path", rel, "replacement", path.Join(path.Dir(rel), replacement))
		}

		dir := vpath.Dir(vpath.FromRelative(rel))
		rank := rankOf(rel, legacy)
		if prev, ok := ix.byDir[dir]; ok {
			if ranks[dir] <= rank {
				logger.Debug("Defaults: Ignoring shadowed file.", "path", rel, "kept", prev.Path)
				continue
			}
			logger.Debug("Defaults: Replacing shadowed file.", "path", prev.Path, "kept", rel)
		}

		text, err := fsutil.ReadFile(tree, rel)
		if err != nil {
			return nil, fmt.Errorf("reading defaults file %s: %w", rel, err)
		}
		ix.byDir[dir] = Source{Path: rel, Dir: dir, Text: text, Format: f, Legacy: legacy}
		ranks[dir] = rank
	}

	logger.Debug("Defaults: Index built.", "count", len(ix.byDir))
	return ix, nil
}

// Lookup returns the defaults of the nearest ancestor directory of the item
// at itemPath, including the item directory itself.
func (ix *Index) Lookup(itemPath string) (Source, bool) {
	for _, dir := range vpath.Ancestors(itemPath) {
		if src, ok := ix.byDir[dir]; ok {
			return src, true
		}
	}
	return Source{}, false
}

// Len returns the number of indexed directories.
func (ix *Index) Len() int {
	return len(ix.byDir)
}

func classify(rel string) (format.Format, bool, bool) {
	f, ok := format.FromPath(rel)
	if !ok {
		return 0, false, false
	}
	base := path.Base(rel)
	switch strings.TrimSuffix(base, path.Ext(base)) {
	case FileStem:
		return f, false, true
	case LegacyStem:
		return f, true, true
	default:
		return 0, false, false
	}
}

// rankOf orders competing files in one directory; lower wins.
func rankOf(rel string, legacy bool) int {
	rank := format.Rank(rel)
	if legacy {
		rank += len(format.Extensions()) + 1
	}
	return rank
}
