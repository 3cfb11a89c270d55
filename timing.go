package soundgen

import (
	"golang.org/x/exp/slices"
)

const (
	// HeadField references the note where a hold connector starts.
	HeadField = "head"
	// TailField references the note where a hold connector ends.
	TailField = "tail"
)

type (
	// Interval is a time span [Start, End) in seconds.
	Interval struct {
		Start float64
		End   float64
	}

	// Timing is what the chart sounds like: for every one-shot clip the
	// sorted, deduplicated times when it is triggered, and for every looped
	// clip the sorted, non-overlapping spans during which it plays.
	Timing struct {
		Instants map[string][]float64
		Holds    map[string][]Interval
	}
)

// ExtractTiming resolves the chart into a Timing. shift (seconds) is added on
// top of the chart's own background track offset. Entities with archetypes
// that make no sound are ignored; known archetypes with missing or broken
// fields are reported as *DataIntegrityError.
func ExtractTiming(level LevelData, shift float64) (Timing, error) {
	changes, err := TempoChanges(level.Entities)
	if err != nil {
		return Timing{}, err
	}
	tempo, err := NewTempoMap(changes, level.BGMOffset+shift)
	if err != nil {
		return Timing{}, err
	}
	ret := Timing{Instants: map[string][]float64{}, Holds: map[string][]Interval{}}
	for i, e := range level.Entities {
		clip, ok := InstantClips[e.Archetype]
		if !ok {
			continue
		}
		beat, ok := e.Value(BeatField)
		if !ok {
			return Timing{}, &DataIntegrityError{Entity: e.label(i), Field: BeatField, Reason: "missing"}
		}
		ret.Instants[clip] = append(ret.Instants[clip], tempo.Time(beat))
	}
	spans := map[string][]Interval{}
	for i, e := range level.Entities {
		clip, ok := HoldClips[e.Archetype]
		if !ok {
			continue
		}
		start, err := refTime(level.Entities, e, i, HeadField, tempo)
		if err != nil {
			return Timing{}, err
		}
		end, err := refTime(level.Entities, e, i, TailField, tempo)
		if err != nil {
			return Timing{}, err
		}
		spans[clip] = append(spans[clip], Interval{Start: start, End: end})
	}
	for clip, s := range spans {
		merged, err := MergeHolds(clip, s)
		if err != nil {
			return Timing{}, err
		}
		if len(merged) > 0 {
			ret.Holds[clip] = merged
		}
	}
	for clip, times := range ret.Instants {
		slices.Sort(times)
		ret.Instants[clip] = slices.Compact(times)
	}
	return ret, nil
}

func refTime(entities []Entity, e Entity, index int, field string, tempo *TempoMap) (float64, error) {
	ref, ok := e.Ref(entities, field)
	if !ok {
		return 0, &DataIntegrityError{Entity: e.label(index), Field: field, Reason: "reference missing or unresolvable"}
	}
	beat, ok := ref.Value(BeatField)
	if !ok {
		return 0, &DataIntegrityError{Entity: e.label(index), Field: field, Reason: "referenced note has no " + BeatField}
	}
	return tempo.Time(beat), nil
}

// MergeHolds collapses overlapping and nested holds of one clip into
// continuous intervals. Every span contributes +1 at its start and -1 at its
// end; contributions at exactly the same time are summed first, so a hold
// ending where another starts produces one interval. The running depth may
// never go negative and must end at zero, otherwise the starts and ends do
// not balance and a *DataIntegrityError is returned.
func MergeHolds(clip string, spans []Interval) ([]Interval, error) {
	changes := make(map[float64]int, len(spans)*2)
	for _, s := range spans {
		changes[s.Start]++
		changes[s.End]--
	}
	times := make([]float64, 0, len(changes))
	for t, c := range changes {
		if c != 0 {
			times = append(times, t)
		}
	}
	slices.Sort(times)
	var ret []Interval
	depth := 0
	for _, t := range times {
		prev := depth
		depth += changes[t]
		if depth < 0 {
			return nil, &DataIntegrityError{Entity: clip, Reason: "hold start and end counts do not match"}
		}
		switch {
		case prev == 0 && depth > 0:
			ret = append(ret, Interval{Start: t})
		case prev > 0 && depth == 0:
			ret[len(ret)-1].End = t
		}
	}
	if depth != 0 {
		return nil, &DataIntegrityError{Entity: clip, Reason: "hold start and end counts do not match"}
	}
	return ret, nil
}
