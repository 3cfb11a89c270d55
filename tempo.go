package soundgen

import (
	"cmp"

	"golang.org/x/exp/slices"
)

const (
	// TempoArchetype is the archetype of the entities that change the tempo.
	TempoArchetype = "#BPM_CHANGE"
	// BeatField holds the chart position of an entity, in beats.
	BeatField = "#BEAT"
	// BPMField holds the new tempo of a tempo change entity.
	BPMField = "#BPM"
)

type (
	// TempoChange sets the tempo to BPM from Beat onwards.
	TempoChange struct {
		Beat float64
		BPM  float64
	}

	// TempoMap converts beat positions of a chart into playback time. It is
	// a piecewise linear integral of the tempo over the beats, shifted by a
	// constant offset.
	TempoMap struct {
		changes []TempoChange
		offset  float64
	}
)

// TempoChanges collects the tempo changes of a chart, sorted by beat. Tempo
// changes at the same beat keep their chart order.
func TempoChanges(entities []Entity) ([]TempoChange, error) {
	var ret []TempoChange
	for i, e := range entities {
		if e.Archetype != TempoArchetype {
			continue
		}
		beat, ok := e.Value(BeatField)
		if !ok {
			return nil, &DataIntegrityError{Entity: e.label(i), Field: BeatField, Reason: "missing"}
		}
		bpm, ok := e.Value(BPMField)
		if !ok {
			return nil, &DataIntegrityError{Entity: e.label(i), Field: BPMField, Reason: "missing"}
		}
		ret = append(ret, TempoChange{Beat: beat, BPM: bpm})
	}
	slices.SortStableFunc(ret, func(a, b TempoChange) int { return cmp.Compare(a.Beat, b.Beat) })
	return ret, nil
}

// NewTempoMap builds a TempoMap from tempo changes. offset (seconds) is added
// to every resolved time. There must be a tempo change at or before beat 0
// and every tempo must be positive.
func NewTempoMap(changes []TempoChange, offset float64) (*TempoMap, error) {
	sorted := slices.Clone(changes)
	slices.SortStableFunc(sorted, func(a, b TempoChange) int { return cmp.Compare(a.Beat, b.Beat) })
	if len(sorted) == 0 || sorted[0].Beat > 0 {
		return nil, &DataIntegrityError{Entity: TempoArchetype, Reason: "no tempo defined at or before beat 0"}
	}
	for _, c := range sorted {
		if !(c.BPM > 0) {
			return nil, &DataIntegrityError{Entity: TempoArchetype, Field: BPMField, Reason: "tempo must be positive"}
		}
	}
	return &TempoMap{changes: sorted, offset: offset}, nil
}

// Time returns the playback time of beat in seconds. Every call integrates
// from the start of the chart, so the order of calls does not matter.
func (m *TempoMap) Time(beat float64) float64 {
	var elapsed, lastBeat float64
	lastBPM := m.changes[0].BPM
	for _, c := range m.changes {
		if c.Beat > beat {
			break
		}
		// changes before the start of the chart only set the initial tempo
		from := max(c.Beat, 0)
		elapsed += (from - lastBeat) * 60 / lastBPM
		lastBeat, lastBPM = from, c.BPM
	}
	elapsed += (beat - lastBeat) * 60 / lastBPM
	return elapsed + m.offset
}
