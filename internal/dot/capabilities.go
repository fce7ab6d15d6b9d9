package dot

// Installs is the canonical installs value: Disabled or Present. A nil
// Installs means the block did not mention installs at all.
type Installs interface {
	isInstalls()
}

// Disabled explicitly turns installation off.
type Disabled struct{}

// Present is an install command with the items that must be installed first.
type Present struct {
	Cmd     string
	Depends Set
}

func (Disabled) isInstalls() {}
func (Present) isInstalls()  {}

// Capabilities is the canonical form of everything a dot declares. Nil
// fields are absent.
type Capabilities struct {
	// Links maps a path relative to the item directory to its link targets.
	Links    map[string]Set
	Installs Installs
	Depends  Set
}
