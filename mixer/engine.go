package mixer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/chartpreview/soundgen"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

type (
	// TaskKind tells whether a task renders one-shot instants or looped
	// holds.
	TaskKind int

	// ThreadInfo describes one rendering task for progress display: the clip
	// it renders, how to color it and how many units (instants or holds) it
	// will report.
	ThreadInfo struct {
		Clip  string
		Kind  TaskKind
		Color soundgen.ClipColor
		Max   int
	}

	// ProgressKind tells what a Progress event reports.
	ProgressKind int

	// Progress is an event on the stream returned by Synthesize. The first
	// event is always a ProgressInfo carrying the roster of all tasks in
	// Threads. After that, each task sends zero or more ProgressUpdate events
	// with the number of units done in Current, followed by exactly one
	// ProgressFinish carrying either the rendered Sound or the Err that made
	// the task fail.
	Progress struct {
		Kind    ProgressKind
		Threads map[string]ThreadInfo
		ID      string
		Current int
		Sound   *soundgen.Sound
		Err     error
	}

	// Options control how the timing is split into tasks and rendered. The
	// zero value is usable.
	Options struct {
		// NotesPerTask caps the number of instants rendered by one task. 0
		// renders all instants of a clip in one task.
		NotesPerTask int
		// FallbackWindow is how long, in seconds, the last instant of a task
		// may ring, as there is no next instant to cut it. 0 means
		// DefaultFallbackWindow.
		FallbackWindow float64
		// Workers limits how many tasks render at the same time. 0 means
		// GOMAXPROCS.
		Workers int
		Logger  *zap.Logger
		Scope   tally.Scope
	}

	task struct {
		id       string
		kind     TaskKind
		clip     string
		sound    *soundgen.Sound
		instants []float64
		holds    []soundgen.Interval
	}
)

const (
	InstantTask TaskKind = iota
	HoldTask
)

const (
	ProgressInfo ProgressKind = iota
	ProgressUpdate
	ProgressFinish
)

// DefaultFallbackWindow is the FallbackWindow used when none is given.
const DefaultFallbackWindow = 5.0

func (k TaskKind) String() string {
	switch k {
	case InstantTask:
		return "instant"
	case HoldTask:
		return "hold"
	}
	return fmt.Sprintf("TaskKind(%d)", int(k))
}

func (k ProgressKind) String() string {
	switch k {
	case ProgressInfo:
		return "info"
	case ProgressUpdate:
		return "update"
	case ProgressFinish:
		return "finish"
	}
	return fmt.Sprintf("ProgressKind(%d)", int(k))
}

func (o Options) withDefaults() Options {
	if o.FallbackWindow <= 0 {
		o.FallbackWindow = DefaultFallbackWindow
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Scope == nil {
		o.Scope = tally.NoopScope
	}
	return o
}

// Synthesize starts rendering timing with the clips of bank and returns the
// progress stream. Each clip's instants are split into tasks with Partition;
// each clip's holds form a single task. Every task renders into a private
// Sound, so tasks share nothing but the read-only bank.
//
// All tasks are created before any of them runs: the roster is sent as the
// first event and only then are the tasks released. The stream is closed once
// every task has returned. If the bank lacks a clip, a *ConfigurationError is
// returned before anything starts. Cancelling ctx makes the tasks give up
// without finishing; cancel it if you stop reading the stream early.
func Synthesize(ctx context.Context, timing soundgen.Timing, bank soundgen.EffectBank, opts Options) (<-chan Progress, error) {
	opts = opts.withDefaults()
	tasks, err := plan(timing, bank, opts.NotesPerTask)
	if err != nil {
		return nil, err
	}
	roster := make(map[string]ThreadInfo, len(tasks))
	for _, t := range tasks {
		units := len(t.instants)
		if t.kind == HoldTask {
			units = len(t.holds)
		}
		roster[t.id] = ThreadInfo{Clip: t.clip, Kind: t.kind, Color: soundgen.Clip(t.clip).Color, Max: units}
		opts.Scope.Tagged(map[string]string{"kind": t.kind.String()}).Counter("tasks").Inc(1)
	}
	events := make(chan Progress, len(tasks)+1)
	start := make(chan struct{})
	workers := make(chan struct{}, opts.Workers)
	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-start:
			case <-ctx.Done():
				return
			}
			select {
			case workers <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-workers }()
			t.run(ctx, events, opts)
		}()
	}
	opts.Logger.Debug("starting rendering tasks", zap.Int("tasks", len(tasks)), zap.Int("workers", opts.Workers))
	events <- Progress{Kind: ProgressInfo, Threads: roster}
	close(start)
	go func() {
		wg.Wait()
		close(events)
	}()
	return events, nil
}

func plan(timing soundgen.Timing, bank soundgen.EffectBank, notesPerTask int) ([]task, error) {
	if err := bank.Require(timing.Clips()...); err != nil {
		return nil, err
	}
	var tasks []task
	for _, clip := range sortedKeys(timing.Instants) {
		times := timing.Instants[clip]
		label := soundgen.Clip(clip).Label
		for i, span := range Partition(len(times), notesPerTask) {
			tasks = append(tasks, task{
				id:       fmt.Sprintf("%v (%v)", label, i+1),
				kind:     InstantTask,
				clip:     clip,
				sound:    bank[clip],
				instants: times[span.Start:span.End],
			})
		}
	}
	for _, clip := range sortedKeys(timing.Holds) {
		if len(timing.Holds[clip]) == 0 {
			continue
		}
		tasks = append(tasks, task{
			id:    soundgen.Clip(clip).Label,
			kind:  HoldTask,
			clip:  clip,
			sound: bank[clip],
			holds: timing.Holds[clip],
		})
	}
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.id] {
			return nil, fmt.Errorf("two rendering tasks share the id %q", t.id)
		}
		seen[t.id] = true
	}
	return tasks, nil
}

func (t *task) run(ctx context.Context, events chan<- Progress, opts Options) {
	logger := opts.Logger.With(zap.String("task", t.id))
	scope := opts.Scope.Tagged(map[string]string{"kind": t.kind.String()})
	stopwatch := scope.Timer("task_latency").Start()
	sound, err := t.render(ctx, events, scope.Counter("units_rendered"), opts.FallbackWindow)
	stopwatch.Stop()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		logger.Error("rendering task failed", zap.Error(err))
		send(ctx, events, Progress{Kind: ProgressFinish, ID: t.id, Err: err})
		return
	}
	logger.Debug("rendering task done", zap.Float64("seconds", sound.Duration()))
	send(ctx, events, Progress{Kind: ProgressFinish, ID: t.id, Sound: sound})
}

// render overlays every unit of the task into a private buffer, reporting
// progress after each one.
func (t *task) render(ctx context.Context, events chan<- Progress, units tally.Counter, window float64) (ret *soundgen.Sound, err error) {
	defer func() {
		if r := recover(); r != nil {
			ret, err = nil, fmt.Errorf("task %v panicked: %v", t.id, r)
		}
	}()
	local := soundgen.NewSound(t.sound.SampleRate)
	switch t.kind {
	case InstantTask:
		for i, at := range t.instants {
			// a clip is cut when the next note of the same task starts
			stop := at + window
			if i+1 < len(t.instants) {
				stop = t.instants[i+1]
			}
			local.OverlayUntil(t.sound, at, stop)
			units.Inc(1)
			if !send(ctx, events, Progress{Kind: ProgressUpdate, ID: t.id, Current: i + 1}) {
				return nil, ctx.Err()
			}
		}
	case HoldTask:
		for i, h := range t.holds {
			local.OverlayLoop(t.sound, h.Start, h.End)
			units.Inc(1)
			if !send(ctx, events, Progress{Kind: ProgressUpdate, ID: t.id, Current: i + 1}) {
				return nil, ctx.Err()
			}
		}
	}
	return local, nil
}

// send blocks until p is sent or ctx is done. It reports whether p was sent.
func send(ctx context.Context, events chan<- Progress, p Progress) bool {
	select {
	case events <- p:
		return true
	case <-ctx.Done():
		return false
	}
}

func sortedKeys[V any](m map[string]V) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	slices.Sort(ret)
	return ret
}
