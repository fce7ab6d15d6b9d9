package dot

// Merge folds incoming over base and returns a new value; neither operand is
// modified.
//
// Links are united per key. An incoming Disabled wins over anything, an
// incoming Present replaces an absent or Disabled base, and two Present values
// keep the incoming command with the union of both dependency sets. Generic
// dependencies are united.
func Merge(base, incoming Capabilities) Capabilities {
	return Capabilities{
		Links:    mergeLinks(base.Links, incoming.Links),
		Installs: mergeInstalls(base.Installs, incoming.Installs),
		Depends:  mergeSets(base.Depends, incoming.Depends),
	}
}

func mergeLinks(base, incoming map[string]Set) map[string]Set {
	if base == nil && incoming == nil {
		return nil
	}
	out := make(map[string]Set, len(base)+len(incoming))
	for src, targets := range base {
		out[src] = targets.clone()
	}
	for src, targets := range incoming {
		out[src] = out[src].Union(targets)
	}
	return out
}

func mergeInstalls(base, incoming Installs) Installs {
	switch in := incoming.(type) {
	case nil:
		return cloneInstalls(base)
	case Disabled:
		return Disabled{}
	case Present:
		if prev, ok := base.(Present); ok {
			return Present{Cmd: in.Cmd, Depends: prev.Depends.Union(in.Depends)}
		}
		return Present{Cmd: in.Cmd, Depends: in.Depends.Union(nil)}
	default:
		return cloneInstalls(base)
	}
}

func cloneInstalls(i Installs) Installs {
	if p, ok := i.(Present); ok {
		return Present{Cmd: p.Cmd, Depends: p.Depends.Union(nil)}
	}
	return i
}

func mergeSets(base, incoming Set) Set {
	if base == nil && incoming == nil {
		return nil
	}
	return base.Union(incoming)
}
