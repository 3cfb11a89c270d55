package mixer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chartpreview/soundgen"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// ProgressSink is told about the progress of a render. Collect calls it from
// a single goroutine, so implementations need no locking.
type ProgressSink interface {
	Start(threads map[string]ThreadInfo)
	Update(id string, current int)
	Finish(id string)
}

type nopSink struct{}

func (nopSink) Start(map[string]ThreadInfo) {}
func (nopSink) Update(string, int)          {}
func (nopSink) Finish(string)               {}

var errNoRoster = errors.New("progress stream did not start with the task roster")

// Collect drains the stream returned by Synthesize, forwarding progress to
// sink (which may be nil) and overlaying every finished task's sound at time
// zero into one buffer. It returns the first task error it sees, or an error
// if the stream ends while tasks are still pending. On error, cancel the
// context given to Synthesize so the remaining tasks stop.
func Collect(ctx context.Context, events <-chan Progress, sink ProgressSink, opts Options) (*soundgen.Sound, error) {
	opts = opts.withDefaults()
	if sink == nil {
		sink = nopSink{}
	}
	var first Progress
	select {
	case p, ok := <-events:
		if !ok || p.Kind != ProgressInfo {
			return nil, errNoRoster
		}
		first = p
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	pending := make(map[string]bool, len(first.Threads))
	for id := range first.Threads {
		pending[id] = true
	}
	sink.Start(first.Threads)
	stopwatch := opts.Scope.Timer("merge_latency").Start()
	defer stopwatch.Stop()
	merged := soundgen.NewSound(0)
	rateSet := false
	for {
		var p Progress
		var ok bool
		select {
		case p, ok = <-events:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if !ok {
			break
		}
		if _, known := first.Threads[p.ID]; !known {
			return nil, fmt.Errorf("progress from unknown task %q", p.ID)
		}
		switch p.Kind {
		case ProgressUpdate:
			sink.Update(p.ID, p.Current)
		case ProgressFinish:
			if p.Err != nil {
				return nil, fmt.Errorf("rendering %v failed: %w", p.ID, p.Err)
			}
			if !pending[p.ID] {
				return nil, fmt.Errorf("task %q finished twice", p.ID)
			}
			delete(pending, p.ID)
			sink.Finish(p.ID)
			if p.Sound == nil {
				continue
			}
			if !rateSet {
				merged.SampleRate = p.Sound.SampleRate
				rateSet = true
			}
			merged.OverlayAt(p.Sound, 0)
		default:
			return nil, fmt.Errorf("unexpected progress event %v from task %q", p.Kind, p.ID)
		}
	}
	if len(pending) > 0 {
		ids := make([]string, 0, len(pending))
		for id := range pending {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		return nil, fmt.Errorf("rendering stopped before tasks finished: %v", strings.Join(ids, ", "))
	}
	opts.Logger.Debug("merged rendering tasks", zap.Int("tasks", len(first.Threads)), zap.Float64("seconds", merged.Duration()))
	return merged, nil
}

// Master mixes the rendered effects onto the background music. The music is
// scaled by volume first; silent drops it altogether. bgm is not modified.
func Master(bgm, effects *soundgen.Sound, volume float64, silent bool) *soundgen.Sound {
	var ret *soundgen.Sound
	switch {
	case silent || bgm == nil:
		ret = soundgen.NewSound(effects.SampleRate)
	default:
		ret = bgm.Clone()
		if volume != 1 {
			ret.Scale(volume)
		}
	}
	ret.OverlayAt(effects, 0)
	return ret
}
