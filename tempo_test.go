package soundgen_test

import (
	"errors"
	"testing"

	"github.com/chartpreview/soundgen"
	"github.com/stretchr/testify/require"
)

func TestTempoMapTime(t *testing.T) {
	tests := []struct {
		name    string
		changes []soundgen.TempoChange
		offset  float64
		beat    float64
		want    float64
	}{
		{"constant", []soundgen.TempoChange{{Beat: 0, BPM: 120}}, 0, 2, 1},
		{"slowdown", []soundgen.TempoChange{{Beat: 0, BPM: 120}, {Beat: 4, BPM: 60}}, 0, 6, 4},
		{"before change", []soundgen.TempoChange{{Beat: 0, BPM: 120}, {Beat: 4, BPM: 60}}, 0, 3, 1.5},
		{"exactly on change", []soundgen.TempoChange{{Beat: 0, BPM: 120}, {Beat: 4, BPM: 60}}, 0, 4, 2},
		{"offset", []soundgen.TempoChange{{Beat: 0, BPM: 120}}, 0.25, 2, 1.25},
		{"unsorted input", []soundgen.TempoChange{{Beat: 4, BPM: 60}, {Beat: 0, BPM: 120}}, 0, 6, 4},
		{"change before start", []soundgen.TempoChange{{Beat: -4, BPM: 60}, {Beat: 2, BPM: 120}}, 0, 4, 3},
		{"duplicate beat uses last", []soundgen.TempoChange{{Beat: 0, BPM: 60}, {Beat: 0, BPM: 120}}, 0, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := soundgen.NewTempoMap(tt.changes, tt.offset)
			require.NoError(t, err)
			require.InDelta(t, tt.want, m.Time(tt.beat), 1e-9)
		})
	}
}

func TestTempoMapIsOrderIndependent(t *testing.T) {
	m, err := soundgen.NewTempoMap([]soundgen.TempoChange{{Beat: 0, BPM: 120}, {Beat: 4, BPM: 60}}, 0)
	require.NoError(t, err)
	late := m.Time(6)
	early := m.Time(1)
	require.InDelta(t, 4.0, late, 1e-9)
	require.InDelta(t, 0.5, early, 1e-9)
	require.InDelta(t, late, m.Time(6), 1e-9)
}

func TestTempoMapRejectsMissingTempo(t *testing.T) {
	for name, changes := range map[string][]soundgen.TempoChange{
		"empty":        nil,
		"starts late":  {{Beat: 1, BPM: 120}},
		"zero tempo":   {{Beat: 0, BPM: 0}},
		"negative bpm": {{Beat: 0, BPM: 120}, {Beat: 2, BPM: -10}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := soundgen.NewTempoMap(changes, 0)
			var dataErr *soundgen.DataIntegrityError
			require.True(t, errors.As(err, &dataErr), "expected DataIntegrityError, got %v", err)
		})
	}
}

func TestTempoChangesRequiresFields(t *testing.T) {
	entities := []soundgen.Entity{
		{Archetype: soundgen.TempoArchetype, Data: []soundgen.EntityData{{Name: soundgen.BeatField, Value: f(0)}}},
	}
	_, err := soundgen.TempoChanges(entities)
	var dataErr *soundgen.DataIntegrityError
	require.ErrorAs(t, err, &dataErr)
	require.Equal(t, soundgen.BPMField, dataErr.Field)
}

func f(v float64) *float64 { return &v }
