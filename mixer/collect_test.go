package mixer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chartpreview/soundgen"
	"github.com/chartpreview/soundgen/mixer"
	"github.com/stretchr/testify/require"
)

func stream(events ...mixer.Progress) <-chan mixer.Progress {
	ch := make(chan mixer.Progress, len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)
	return ch
}

var roster = mixer.Progress{Kind: mixer.ProgressInfo, Threads: map[string]mixer.ThreadInfo{
	"Tap (1)": {Clip: "#PERFECT", Max: 1},
	"Tap (2)": {Clip: "#PERFECT", Max: 1},
}}

func TestCollectMerges(t *testing.T) {
	sound, err := mixer.Collect(context.Background(), stream(
		roster,
		mixer.Progress{Kind: mixer.ProgressUpdate, ID: "Tap (2)", Current: 1},
		mixer.Progress{Kind: mixer.ProgressFinish, ID: "Tap (2)", Sound: &soundgen.Sound{Data: []int16{0, 0, 5, 5}, SampleRate: testRate}},
		mixer.Progress{Kind: mixer.ProgressFinish, ID: "Tap (1)", Sound: &soundgen.Sound{Data: []int16{1, 1}, SampleRate: testRate}},
	), nil, mixer.Options{})
	require.NoError(t, err)
	require.Equal(t, []int16{1, 1, 5, 5}, sound.Data)
	require.Equal(t, testRate, sound.SampleRate)
}

func TestCollectFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name   string
		events []mixer.Progress
	}{
		{"no roster", []mixer.Progress{{Kind: mixer.ProgressUpdate, ID: "Tap (1)"}}},
		{"empty stream", nil},
		{"task error", []mixer.Progress{roster, {Kind: mixer.ProgressFinish, ID: "Tap (1)", Err: boom}}},
		{"closed early", []mixer.Progress{roster, {Kind: mixer.ProgressFinish, ID: "Tap (1)", Sound: soundgen.NewSound(0)}}},
		{"unknown task", []mixer.Progress{roster, {Kind: mixer.ProgressUpdate, ID: "Flick (1)"}}},
		{"finished twice", []mixer.Progress{roster,
			{Kind: mixer.ProgressFinish, ID: "Tap (1)", Sound: soundgen.NewSound(0)},
			{Kind: mixer.ProgressFinish, ID: "Tap (1)", Sound: soundgen.NewSound(0)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mixer.Collect(context.Background(), stream(tt.events...), nil, mixer.Options{})
			require.Error(t, err)
		})
	}
}

func TestCollectWrapsTaskError(t *testing.T) {
	boom := errors.New("boom")
	_, err := mixer.Collect(context.Background(), stream(roster,
		mixer.Progress{Kind: mixer.ProgressFinish, ID: "Tap (2)", Err: boom}), nil, mixer.Options{})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "Tap (2)")
}

func TestCollectNamesUnexpectedKind(t *testing.T) {
	_, err := mixer.Collect(context.Background(), stream(roster,
		mixer.Progress{Kind: mixer.ProgressInfo, ID: "Tap (1)"}), nil, mixer.Options{})
	require.EqualError(t, err, `unexpected progress event info from task "Tap (1)"`)
	require.Equal(t, "ProgressKind(7)", mixer.ProgressKind(7).String())
}

func TestCollectStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := mixer.Collect(ctx, make(chan mixer.Progress), nil, mixer.Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMaster(t *testing.T) {
	bgm := &soundgen.Sound{Data: []int16{100, 100, 100, 100}, SampleRate: testRate}
	effects := &soundgen.Sound{Data: []int16{1, 1, 1, 1, 1, 1}, SampleRate: testRate}
	out := mixer.Master(bgm, effects, 0.5, false)
	require.Equal(t, []int16{51, 51, 51, 51, 1, 1}, out.Data)
	require.Equal(t, []int16{100, 100, 100, 100}, bgm.Data, "bgm is left untouched")
	out = mixer.Master(bgm, effects, 1, true)
	require.Equal(t, effects.Data, out.Data)
	out = mixer.Master(nil, effects, 1, false)
	require.Equal(t, effects.Data, out.Data)
}
