// Package resolve turns the dot files of a dotfiles tree into resolved items:
// each file is rendered, parsed, canonicalized for the current environment and
// merged over the nearest defaults.
package resolve

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"

	"github.com/specialistvlad/dotgrid/internal/ctxlog"
	"github.com/specialistvlad/dotgrid/internal/defaults"
	"github.com/specialistvlad/dotgrid/internal/dot"
	"github.com/specialistvlad/dotgrid/internal/errs"
	"github.com/specialistvlad/dotgrid/internal/format"
	"github.com/specialistvlad/dotgrid/internal/fsutil"
	"github.com/specialistvlad/dotgrid/internal/selector"
	"github.com/specialistvlad/dotgrid/internal/templating"
	"github.com/specialistvlad/dotgrid/internal/vpath"
)

// DotStem is the base name of a dot file.
const DotStem = "dot"

// DefaultPattern selects every item.
const DefaultPattern = "/**"

// Resolver resolves the dots of one tree for one environment.
type Resolver struct {
	tree     billy.Filesystem
	renderer templating.Renderer
	os       selector.OS
	config   templating.Config
}

// New creates a Resolver.
func New(tree billy.Filesystem, renderer templating.Renderer, os selector.OS, config templating.Config) *Resolver {
	return &Resolver{tree: tree, renderer: renderer, os: os, config: config}
}

// dotFile is a discovered dot file.
type dotFile struct {
	name   string
	path   string
	format format.Format
}

// Resolve resolves every dot whose name matches one of globs (all dots when
// globs is empty). Items are sorted by name. Failures of individual items are
// collected into one *errs.Multi of *ItemError, returned alongside the items
// that did resolve.
func (r *Resolver) Resolve(ctx context.Context, globs []string) ([]Item, error) {
	logger := ctxlog.FromContext(ctx)

	patterns, err := Patterns(globs)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolve: Starting.", "patterns", patterns, "os", r.os)

	files, err := fsutil.FindFiles(r.tree, func(rel string) bool {
		_, ok := dotFormat(rel)
		return ok || defaults.IsFile(rel)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning dotfiles tree: %w", err)
	}
	found := r.discover(ctx, files)

	var selected []dotFile
	for _, df := range found {
		if MatchAny(patterns, df.name) {
			selected = append(selected, df)
		}
	}
	if len(selected) == 0 {
		logger.Warn("Resolve: No dots found.", "patterns", patterns)
		return []Item{}, nil
	}
	logger.Debug("Resolve: Dots selected.", "count", len(selected), "found", len(found))

	ix, err := defaults.Build(ctx, r.tree, files)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(selected))
	var failed errs.Multi
	for _, df := range selected {
		item, err := r.resolveItem(df, ix)
		if err != nil {
			logger.Debug("Resolve: Item failed.", "item", df.name, "error", err)
			failed.Append(err)
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	logger.Debug("Resolve: Finished.", "resolved", len(items), "failed", len(failed.Errors))
	return items, failed.ErrorOrNil()
}

// discover picks one dot file per directory among files. When a directory
// holds several, the first by extension priority is used.
func (r *Resolver) discover(ctx context.Context, files []string) []dotFile {
	logger := ctxlog.FromContext(ctx)

	byName := make(map[string]dotFile)
	for _, rel := range files {
		f, ok := dotFormat(rel)
		if !ok {
			continue
		}
		df := dotFile{name: vpath.Dir(vpath.FromRelative(rel)), path: rel, format: f}
		if prev, ok := byName[df.name]; ok {
			if format.Rank(prev.path) <= format.Rank(rel) {
				logger.Warn("Resolve: Several dot files in one directory, ignoring one.", "ignored", rel, "used", prev.path)
				continue
			}
			logger.Warn("Resolve: Several dot files in one directory, ignoring one.", "ignored", prev.path, "used", rel)
		}
		byName[df.name] = df
	}

	out := make([]dotFile, 0, len(byName))
	for _, df := range byName {
		out = append(out, df)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (r *Resolver) resolveItem(df dotFile, ix *defaults.Index) (Item, error) {
	itemErr := func(p string, err error) error {
		return &ItemError{Name: df.name, Path: p, Err: err}
	}

	params := templating.Parameters{Name: df.name, Config: r.config}
	ev := templating.Evaluator(r.renderer, params)

	var base dot.Capabilities
	if src, ok := ix.Lookup(df.name); ok {
		doc, err := r.load(src.Path, src.Text, src.Format, params)
		if err != nil {
			return Item{}, itemErr(src.Path, err)
		}
		if base, err = dot.Canonicalize(doc, r.os, ev); err != nil {
			return Item{}, itemErr(src.Path, err)
		}
	}

	text, err := fsutil.ReadFile(r.tree, df.path)
	if err != nil {
		return Item{}, itemErr(df.path, err)
	}
	doc, err := r.load(df.path, text, df.format, params)
	if err != nil {
		return Item{}, itemErr(df.path, err)
	}
	own, err := dot.Canonicalize(doc, r.os, ev)
	if err != nil {
		return Item{}, itemErr(df.path, err)
	}

	merged := dot.Merge(base, own)
	item := Item{Name: df.name, Links: merged.Links, Installs: merged.Installs}
	if item.Depends, err = absolutize(df.name, merged.Depends); err != nil {
		return Item{}, itemErr(df.path, err)
	}
	if p, ok := merged.Installs.(dot.Present); ok {
		deps, err := absolutize(df.name, p.Depends)
		if err != nil {
			return Item{}, itemErr(df.path, err)
		}
		item.Installs = dot.Present{Cmd: p.Cmd, Depends: deps}
	}
	return item, nil
}

func (r *Resolver) load(p string, text []byte, f format.Format, params templating.Parameters) (*dot.Document, error) {
	rendered, err := r.renderer.Render(p, string(text), params)
	if err != nil {
		return nil, err
	}
	return dot.Parse([]byte(rendered), p, f)
}

func absolutize(name string, deps dot.Set) (dot.Set, error) {
	if deps == nil {
		return nil, nil
	}
	out := make(dot.Set, len(deps))
	for _, dep := range deps.Sorted() {
		abs, err := vpath.Resolve(name, dep)
		if err != nil {
			return nil, err
		}
		out[abs] = struct{}{}
	}
	return out, nil
}

// Patterns normalizes selection globs: every pattern is rooted with a leading
// "/" and validated; no globs means DefaultPattern.
func Patterns(globs []string) ([]string, error) {
	if len(globs) == 0 {
		return []string{DefaultPattern}, nil
	}
	out := make([]string, 0, len(globs))
	for _, g := range globs {
		if !strings.HasPrefix(g, "/") {
			g = "/" + g
		}
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid dot pattern %q", g)
		}
		out = append(out, g)
	}
	return out, nil
}

// MatchAny reports whether name matches one of the already normalized
// patterns.
func MatchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func dotFormat(rel string) (format.Format, bool) {
	base := path.Base(rel)
	if strings.TrimSuffix(base, path.Ext(base)) != DotStem {
		return 0, false
	}
	return format.FromPath(rel)
}
