package templating

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/specialistvlad/dotgrid/internal/selector"
)

// Config is the part of the application configuration templates can see.
type Config struct {
	Dotfiles     string
	ShellCommand string
	Variables    map[string]string
}

// Parameters are the per-render inputs.
type Parameters struct {
	// Name is the virtual path of the item being rendered.
	Name   string
	Config Config
	// Vars are extra top-level string variables, such as cmd in the shell
	// wrapper.
	Vars map[string]string
}

// Renderer renders template text. name only labels diagnostics.
type Renderer interface {
	Render(name, text string, params Parameters) (string, error)
}

// RenderError reports a template that failed to parse or evaluate.
type RenderError struct {
	Name        string
	Template    string
	Diagnostics hcl.Diagnostics
	Err         error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rendering %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("rendering %s: %s", e.Name, e.Diagnostics.Error())
}

func (e *RenderError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Diagnostics
}

// Engine is the HCL-backed Renderer.
type Engine struct {
	facts     Facts
	functions map[string]function.Function
}

// NewEngine creates an engine that exposes facts to every template.
func NewEngine(facts Facts) *Engine {
	return &Engine{
		facts: facts,
		functions: map[string]function.Function{
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"replace":   stdlib.ReplaceFunc,
			"join":      stdlib.JoinFunc,
			"split":     stdlib.SplitFunc,
			"format":    stdlib.FormatFunc,
			"coalesce":  stdlib.CoalesceFunc,
			"strlen":    stdlib.StrlenFunc,
			"substr":    stdlib.SubstrFunc,
			"quote":     QuoteFunc,
		},
	}
}

// Render evaluates text as an HCL template.
func (e *Engine) Render(name, text string, params Parameters) (string, error) {
	expr, diags := hclsyntax.ParseTemplate([]byte(text), name, hcl.InitialPos)
	if diags.HasErrors() {
		return "", &RenderError{Name: name, Template: text, Diagnostics: diags}
	}

	val, diags := expr.Value(&hcl.EvalContext{
		Variables: e.variables(params),
		Functions: e.functions,
	})
	if diags.HasErrors() {
		return "", &RenderError{Name: name, Template: text, Diagnostics: diags}
	}
	if val.IsNull() {
		return "", nil
	}

	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", &RenderError{Name: name, Template: text, Err: fmt.Errorf("result is not a string: %w", err)}
	}
	if str.IsNull() {
		return "", nil
	}
	return str.AsString(), nil
}

func (e *Engine) variables(p Parameters) map[string]cty.Value {
	vars := map[string]cty.Value{
		"name": cty.StringVal(p.Name),
		"os":   cty.StringVal(e.facts.OS),
		"env":  stringMap(e.facts.Env),
		"whoami": cty.ObjectVal(map[string]cty.Value{
			"username": cty.StringVal(e.facts.Whoami.Username),
			"realname": cty.StringVal(e.facts.Whoami.Realname),
			"hostname": cty.StringVal(e.facts.Whoami.Hostname),
			"platform": cty.StringVal(e.facts.Whoami.Platform),
			"arch":     cty.StringVal(e.facts.Whoami.Arch),
			"distro":   cty.StringVal(e.facts.Whoami.Distro),
		}),
		"dirs": cty.ObjectVal(map[string]cty.Value{
			"home":   cty.StringVal(e.facts.Dirs.Home),
			"config": cty.StringVal(e.facts.Dirs.Config),
			"cache":  cty.StringVal(e.facts.Dirs.Cache),
		}),
		"config": cty.ObjectVal(map[string]cty.Value{
			"dotfiles":      cty.StringVal(p.Config.Dotfiles),
			"shell_command": cty.StringVal(p.Config.ShellCommand),
			"variables":     stringMap(p.Config.Variables),
		}),
	}
	for k, v := range p.Vars {
		vars[k] = cty.StringVal(v)
	}
	return vars
}

func stringMap(m map[string]string) cty.Value {
	if len(m) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	vals := make(map[string]cty.Value, len(m))
	for k, v := range m {
		vals[k] = cty.StringVal(v)
	}
	return cty.MapVal(vals)
}

// Evaluator adapts r to selector attribute evaluation: the key
// "whoami.username" is rendered as "${whoami.username}".
func Evaluator(r Renderer, params Parameters) selector.Evaluator {
	return selector.EvaluatorFunc(func(key string) (string, error) {
		return r.Render("attribute "+key, Expression(key), params)
	})
}

// Expression wraps key in interpolation syntax.
func Expression(key string) string {
	return "${" + strings.TrimSpace(key) + "}"
}
