package featureflag

import "sort"

const (
	TestRuns             = "testRuns"
	Internationalization = "internationalization"
)

var defaults = map[string]bool{
	TestRuns:             false,
	Internationalization: false,
}

// Set is the process wide flag set. It is built once at startup and only
// read afterwards.
type Set struct {
	flags map[string]bool
}

// New applies overrides on top of the defaults. Unknown names are ignored.
func New(overrides map[string]bool) *Set {
	flags := make(map[string]bool, len(defaults))
	for k, v := range defaults {
		flags[k] = v
	}
	for k, v := range overrides {
		if _, ok := defaults[k]; ok {
			flags[k] = v
		}
	}
	return &Set{flags: flags}
}

func (s *Set) Enabled(name string) bool {
	if s == nil {
		return defaults[name]
	}
	return s.flags[name]
}

func (s *Set) All() map[string]bool {
	out := make(map[string]bool, len(s.flags))
	for k, v := range s.flags {
		out[k] = v
	}
	return out
}

func Names() []string {
	names := make([]string, 0, len(defaults))
	for k := range defaults {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
