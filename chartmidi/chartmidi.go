// Package chartmidi exports the timing of a chart as a standard MIDI file, so
// it can be lined up with the music in a DAW.
package chartmidi

import (
	"fmt"
	"io"
	"math"

	"github.com/chartpreview/soundgen"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/slices"
)

const (
	// Resolution is the number of ticks per quarter note.
	Resolution = 960
	// Tempo is fixed, so a second is always TicksPerSecond ticks.
	Tempo          = 120.0
	TicksPerSecond = Resolution * Tempo / 60
	// Channel is the general MIDI percussion channel.
	Channel  = 9
	FirstKey = 35
	velocity = 100
	// instants have no length; they are written as short notes
	instantTicks = Resolution / 8
)

type event struct {
	tick uint32
	on   bool
	key  uint8
}

// Write writes timing as a single track MIDI file. Each clip gets its own key,
// from FirstKey up in clip name order. Instants become short notes, holds
// notes lasting as long as the hold.
func Write(w io.Writer, timing soundgen.Timing) error {
	clips := timing.Clips()
	if FirstKey+len(clips) > 127 {
		return fmt.Errorf("too many clips for one channel: %v", len(clips))
	}
	var events []event
	for i, clip := range clips {
		key := uint8(FirstKey + i)
		for _, t := range timing.Instants[clip] {
			start := ticks(t)
			events = append(events, event{start, true, key}, event{start + instantTicks, false, key})
		}
		for _, h := range timing.Holds[clip] {
			events = append(events, event{ticks(h.Start), true, key}, event{ticks(h.End), false, key})
		}
	}
	// at the same tick, notes end before new ones start
	slices.SortStableFunc(events, func(a, b event) int {
		if a.tick != b.tick {
			if a.tick < b.tick {
				return -1
			}
			return 1
		}
		if a.on == b.on {
			return 0
		}
		if !a.on {
			return -1
		}
		return 1
	})
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("chart timing"))
	tr.Add(0, smf.MetaTempo(Tempo))
	var last uint32
	for _, e := range events {
		msg := midi.NoteOff(Channel, e.key)
		if e.on {
			msg = midi.NoteOn(Channel, e.key, velocity)
		}
		tr.Add(e.tick-last, msg)
		last = e.tick
	}
	tr.Close(0)
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(Resolution)
	if err := s.Add(tr); err != nil {
		return err
	}
	_, err := s.WriteTo(w)
	return err
}

func ticks(seconds float64) uint32 {
	if !(seconds > 0) {
		return 0
	}
	return uint32(math.Round(seconds * TicksPerSecond))
}
