package config

import (
	"sort"

	"github.com/spf13/pflag"
)

// ExplicitFlags is the set of flag names typed on the command line. It is
// never mutated after construction; the zero value is the empty set.
type ExplicitFlags struct {
	names map[string]struct{}
}

// ExplicitFromFlagSet collects the flags pflag saw during parsing.
func ExplicitFromFlagSet(fs *pflag.FlagSet) ExplicitFlags {
	e := ExplicitFlags{names: map[string]struct{}{}}
	if fs != nil {
		fs.Visit(func(f *pflag.Flag) { e.names[f.Name] = struct{}{} })
	}
	return e
}

// ExplicitFromMap keeps the names mapped to true.
func ExplicitFromMap(m map[string]bool) ExplicitFlags {
	e := ExplicitFlags{names: make(map[string]struct{}, len(m))}
	for name, set := range m {
		if set {
			e.names[name] = struct{}{}
		}
	}
	return e
}

func (e ExplicitFlags) Has(name string) bool {
	_, ok := e.names[name]
	return ok
}

// Any reports whether at least one of names was given.
func (e ExplicitFlags) Any(names ...string) bool {
	for _, name := range names {
		if e.Has(name) {
			return true
		}
	}
	return false
}

func (e ExplicitFlags) Len() int {
	return len(e.names)
}

// Names returns the flag names in sorted order.
func (e ExplicitFlags) Names() []string {
	out := make([]string, 0, len(e.names))
	for name := range e.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Map converts the set into the map form the service constructors accept.
func (e ExplicitFlags) Map() map[string]bool {
	out := make(map[string]bool, len(e.names))
	for name := range e.names {
		out[name] = true
	}
	return out
}

// PickList returns fromFlag when name was given with at least one value.
func PickList(e ExplicitFlags, name string, fromConfig, fromFlag []string) []string {
	if e.Has(name) && len(fromFlag) > 0 {
		return fromFlag
	}
	return fromConfig
}
