package install

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kballard/go-shellquote"

	"github.com/specialistvlad/dotgrid/internal/ctxlog"
	"github.com/specialistvlad/dotgrid/internal/dag"
	"github.com/specialistvlad/dotgrid/internal/dot"
	"github.com/specialistvlad/dotgrid/internal/resolve"
	"github.com/specialistvlad/dotgrid/internal/templating"
)

// Options tune one install run.
type Options struct {
	ContinueOnError         bool
	SkipDependencies        bool
	SkipInstallDependencies bool
	DryRun                  bool
	// Silent hides command output.
	Silent bool
}

// Report is the outcome of a run.
type Report struct {
	// Attempted lists every item whose turn came, in execution order.
	Attempted []string
	// Failed holds the errors of commands that failed under ContinueOnError.
	Failed map[string]error
}

// Executor installs resolved items.
type Executor struct {
	renderer templating.Renderer
	runner   Runner
	config   templating.Config
	opts     Options
}

// New creates an Executor. config.ShellCommand, when set, is a template that
// wraps every command; it sees the command as ${cmd}.
func New(renderer templating.Renderer, runner Runner, config templating.Config, opts Options) *Executor {
	return &Executor{renderer: renderer, runner: runner, config: config, opts: opts}
}

// Step is one planned item.
type Step struct {
	Name string
	// Command is the final command line; empty when there is nothing to run.
	Command string
	Argv    []string
}

// Run installs the items whose names match globs, dependencies first. Items
// are looked up among candidates: resolved items declaring installs or
// depends.
func (e *Executor) Run(ctx context.Context, items []resolve.Item, globs []string) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	steps, err := e.Plan(ctx, items, globs)
	if err != nil {
		return nil, err
	}
	logger.Debug("Install: Plan ready.", "steps", len(steps), "dry_run", e.opts.DryRun)

	report := &Report{Failed: make(map[string]error)}
	for _, s := range steps {
		report.Attempted = append(report.Attempted, s.Name)
		if s.Argv == nil {
			logger.Debug("Install: Nothing to run.", "item", s.Name)
			continue
		}

		logger.Info("Install: Running command.", "item", s.Name, "command", s.Command, "dry_run", e.opts.DryRun)
		out, err := e.runner.Run(ctx, s.Argv[0], s.Argv[1:], e.opts.Silent, e.opts.DryRun)
		if err == nil {
			continue
		}

		cmdErr := &CommandError{Item: s.Name, Command: s.Command, Output: out, Err: err}
		if !e.opts.ContinueOnError {
			return report, cmdErr
		}
		logger.Warn("Install: Command failed, continuing.", "item", s.Name, "error", err)
		report.Failed[s.Name] = cmdErr
	}
	return report, nil
}

// Plan validates the run and returns its steps in execution order without
// running anything.
func (e *Executor) Plan(ctx context.Context, items []resolve.Item, globs []string) ([]Step, error) {
	logger := ctxlog.FromContext(ctx)

	patterns, err := resolve.Patterns(globs)
	if err != nil {
		return nil, err
	}

	candidates := candidatesOf(items)
	g, err := buildGraph(candidates)
	if err != nil {
		return nil, err
	}

	var roots []string
	for _, it := range candidates {
		if resolve.MatchAny(patterns, it.Name) {
			roots = append(roots, it.Name)
		}
	}
	logger.Debug("Install: Candidates collected.", "candidates", len(candidates), "selected", len(roots))

	order, err := g.Order(roots, e.follow)
	if err != nil {
		return nil, dependencyError(err)
	}

	byName := make(map[string]resolve.Item, len(candidates))
	for _, it := range candidates {
		byName[it.Name] = it
	}

	steps := make([]Step, 0, len(order))
	for _, name := range order {
		s, err := e.prepare(byName[name])
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func (e *Executor) follow(edge dag.Edge) bool {
	switch edge.Kind {
	case dag.EdgeInstall:
		return !e.opts.SkipInstallDependencies
	default:
		return !e.opts.SkipDependencies
	}
}

func (e *Executor) prepare(it resolve.Item) (Step, error) {
	s := Step{Name: it.Name}
	present, ok := it.Installs.(dot.Present)
	if !ok {
		return s, nil
	}

	s.Command = present.Cmd
	if e.config.ShellCommand != "" {
		params := templating.Parameters{
			Name:   it.Name,
			Config: e.config,
			Vars:   map[string]string{"cmd": present.Cmd},
		}
		wrapped, err := e.renderer.Render("shell_command", e.config.ShellCommand, params)
		if err != nil {
			return s, &PrepareError{Item: it.Name, Err: err}
		}
		s.Command = wrapped
	}

	argv, err := shellquote.Split(s.Command)
	if err != nil {
		return s, &PrepareError{Item: it.Name, Err: err}
	}
	if len(argv) == 0 {
		return s, &PrepareError{Item: it.Name, Err: errors.New("command is empty")}
	}
	s.Argv = argv
	return s, nil
}

func candidatesOf(items []resolve.Item) []resolve.Item {
	var out []resolve.Item
	for _, it := range items {
		if it.Installs != nil || len(it.Depends) > 0 {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// buildGraph links every dependency pattern to the first candidate, in name
// order, that it matches.
func buildGraph(candidates []resolve.Item) (*dag.Graph, error) {
	g := dag.New()
	for _, it := range candidates {
		g.AddNode(it.Name)
	}

	link := func(from string, patterns dot.Set, kind dag.EdgeKind) error {
		for _, pattern := range patterns.Sorted() {
			target, err := firstMatch(candidates, pattern)
			if err != nil {
				return &DependencyError{Item: from, Pattern: pattern, Kind: ErrDependencyNotFound, Err: err}
			}
			if target == "" {
				if err := g.AddUnresolved(from, pattern, kind); err != nil {
					return err
				}
				continue
			}
			if err := g.AddEdge(from, target, pattern, kind); err != nil {
				return err
			}
		}
		return nil
	}

	for _, it := range candidates {
		if err := link(it.Name, it.InstallDepends(), dag.EdgeInstall); err != nil {
			return nil, err
		}
		if err := link(it.Name, it.Depends, dag.EdgeDepends); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func firstMatch(candidates []resolve.Item, pattern string) (string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return "", fmt.Errorf("invalid pattern %q", pattern)
	}
	for _, it := range candidates {
		if ok, _ := doublestar.Match(pattern, it.Name); ok {
			return it.Name, nil
		}
	}
	return "", nil
}

func dependencyError(err error) error {
	var cycleErr *dag.CycleError
	if errors.As(err, &cycleErr) {
		kind := ErrCyclicDependency
		if cycleErr.Kind == dag.EdgeInstall {
			kind = ErrCyclicInstallDependency
		}
		return &DependencyError{Item: cycleErr.Through, Path: cycleErr.Path, Kind: kind, Err: err}
	}
	var missingErr *dag.MissingError
	if errors.As(err, &missingErr) {
		return &DependencyError{Item: missingErr.From, Pattern: missingErr.Pattern, Kind: ErrDependencyNotFound, Err: err}
	}
	return err
}
