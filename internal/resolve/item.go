package resolve

import (
	"fmt"

	"github.com/specialistvlad/dotgrid/internal/dot"
)

// Item is the fully resolved description of one dot. Every dependency is a
// virtual absolute path or glob.
type Item struct {
	// Name is the virtual absolute directory of the dot file.
	Name     string
	Links    map[string]dot.Set
	Installs dot.Installs
	Depends  dot.Set
}

// InstallDepends returns the install dependencies, or nil when the item has
// no install command.
func (it Item) InstallDepends() dot.Set {
	if p, ok := it.Installs.(dot.Present); ok {
		return p.Depends
	}
	return nil
}

type installsYAML struct {
	Cmd     string   `yaml:"cmd"`
	Depends []string `yaml:"depends,omitempty"`
}

type itemYAML struct {
	Name     string              `yaml:"name"`
	Links    map[string][]string `yaml:"links,omitempty"`
	Installs any                 `yaml:"installs,omitempty"`
	Depends  []string            `yaml:"depends,omitempty"`
}

// MarshalYAML renders sets as sorted lists and Disabled as false.
func (it Item) MarshalYAML() (any, error) {
	out := itemYAML{Name: it.Name}
	if it.Links != nil {
		out.Links = make(map[string][]string, len(it.Links))
		for src, targets := range it.Links {
			out.Links[src] = targets.Sorted()
		}
	}
	switch in := it.Installs.(type) {
	case nil:
	case dot.Disabled:
		out.Installs = false
	case dot.Present:
		out.Installs = installsYAML{Cmd: in.Cmd, Depends: in.Depends.Sorted()}
	default:
		return nil, fmt.Errorf("unknown installs type %T", it.Installs)
	}
	if it.Depends != nil {
		out.Depends = it.Depends.Sorted()
	}
	return out, nil
}

// ItemError ties a failure to the dot it happened in.
type ItemError struct {
	Name string
	// Path is the slash-separated file that failed, relative to the tree root.
	Path string
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("dot %s (%s): %v", e.Name, e.Path, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }
