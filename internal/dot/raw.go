package dot

// RawInstallsKind tells which shape an installs value was written in.
type RawInstallsKind int

const (
	// RawDisabled is `installs: false`.
	RawDisabled RawInstallsKind = iota
	// RawSimple is a bare command string.
	RawSimple
	// RawFull is an object with cmd and optional depends.
	RawFull
)

// RawInstalls is an installs value as written.
type RawInstalls struct {
	Kind    RawInstallsKind
	Cmd     string
	Depends []string
}

// OneOrMany holds a link target written either as one path or a list.
type OneOrMany []string

// RawCapabilities is one capability block as written in a document. Nil
// fields were not specified.
type RawCapabilities struct {
	Links    map[string]OneOrMany `mapstructure:"links"`
	Installs *RawInstalls         `mapstructure:"installs"`
	Depends  []string             `mapstructure:"depends"`
}

// Canonical converts r to the canonical model.
func (r RawCapabilities) Canonical() Capabilities {
	var c Capabilities
	if r.Links != nil {
		c.Links = make(map[string]Set, len(r.Links))
		for src, targets := range r.Links {
			c.Links[src] = NewSet(targets...)
		}
	}
	if r.Installs != nil {
		switch r.Installs.Kind {
		case RawDisabled:
			c.Installs = Disabled{}
		case RawSimple:
			c.Installs = Present{Cmd: r.Installs.Cmd, Depends: Set{}}
		case RawFull:
			c.Installs = Present{Cmd: r.Installs.Cmd, Depends: NewSet(r.Installs.Depends...)}
		}
	}
	if r.Depends != nil {
		c.Depends = NewSet(r.Depends...)
	}
	return c
}
