package soundgen

import (
	"golang.org/x/exp/slices"
)

// EffectBank maps effect clip names to their decoded sound. It is not
// modified after loading and is shared read-only by all the rendering tasks.
type EffectBank map[string]*Sound

// Require checks that the bank holds every named clip. The first missing
// clip, in name order, is reported as a *ConfigurationError.
func (b EffectBank) Require(clips ...string) error {
	sorted := slices.Clone(clips)
	slices.Sort(sorted)
	for _, c := range sorted {
		if s, ok := b[c]; !ok || s == nil {
			return &ConfigurationError{Clip: c, Reason: "not found in the effect bank"}
		}
	}
	return nil
}

// Clips returns the names of all the clips the timing uses, sorted.
func (t Timing) Clips() []string {
	ret := make([]string, 0, len(t.Instants)+len(t.Holds))
	for c := range t.Instants {
		ret = append(ret, c)
	}
	for c := range t.Holds {
		ret = append(ret, c)
	}
	slices.Sort(ret)
	return slices.Compact(ret)
}
