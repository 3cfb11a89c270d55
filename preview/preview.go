// Package preview renders the audio preview of a chart: it fetches the level,
// its music and its effect clips, places the clips on the chart's timing and
// mixes the result onto the music.
package preview

//go:generate mockgen -package preview -source preview.go -destination preview_mock.go

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chartpreview/soundgen"
	"github.com/chartpreview/soundgen/chartmidi"
	"github.com/chartpreview/soundgen/mixer"
	"github.com/chartpreview/soundgen/sonolus"
	"github.com/google/uuid"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
)

type (
	// Catalog is where levels come from: a Sonolus server or local files.
	Catalog interface {
		FetchLevel(ctx context.Context, id string) (*sonolus.Level, error)
		FetchBGM(ctx context.Context, level *sonolus.Level) ([]byte, error)
		FetchEffect(ctx context.Context, level *sonolus.Level) (sonolus.Effect, error)
	}

	Codec interface {
		Decode(data []byte) (*soundgen.Sound, error)
		DecodeBank(files map[string][]byte, clips []string) (soundgen.EffectBank, error)
		Encode(sound *soundgen.Sound, path string) error
	}

	Request struct {
		ID string
		// BGM replaces the level's music when not nil.
		BGM []byte
		// Volume scales the music, 1 keeps it as is.
		Volume float64
		Shift  float64
		Silent bool
		Mixer  mixer.Options
	}

	Result struct {
		RunID    string
		Level    *sonolus.Level
		Timing   soundgen.Timing
		Sound    *soundgen.Sound
		Loudness soundgen.Loudness
	}

	Renderer struct {
		Catalog Catalog
		Codec   Codec
		Logger  *zap.Logger
		Scope   tally.Scope
		Sink    mixer.ProgressSink
	}
)

// Render produces the preview of one level.
func (r *Renderer) Render(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	logger := r.logger().With(zap.String("run", runID))
	scope := r.scope()
	started := time.Now()

	level, err := r.Catalog.FetchLevel(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching level %v failed: %w", req.ID, err)
	}
	logger.Info("level fetched",
		zap.String("title", level.Info.Title),
		zap.String("artists", level.Info.Artists),
		zap.String("author", level.Info.Author),
		zap.Int("rating", level.Info.Rating),
		zap.String("server", level.Server.Name))

	var bgm *soundgen.Sound
	if !req.Silent {
		raw := req.BGM
		if raw == nil {
			if raw, err = r.Catalog.FetchBGM(ctx, level); err != nil {
				return nil, fmt.Errorf("fetching music failed: %w", err)
			}
		}
		if bgm, err = r.Codec.Decode(raw); err != nil {
			return nil, fmt.Errorf("decoding music failed: %w", err)
		}
		logger.Debug("music decoded", zap.Float64("seconds", bgm.Duration()))
	}

	timing, err := soundgen.ExtractTiming(level.Data, req.Shift)
	if err != nil {
		return nil, err
	}
	clips := timing.Clips()
	logger.Debug("timing extracted", zap.Strings("clips", clips))

	files, err := r.Catalog.FetchEffect(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("fetching effect failed: %w", err)
	}
	bank, err := r.Codec.DecodeBank(files, clips)
	if err != nil {
		return nil, err
	}

	opts := req.Mixer
	opts.Logger = logger
	opts.Scope = scope
	renderCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, err := mixer.Synthesize(renderCtx, timing, bank, opts)
	if err != nil {
		return nil, err
	}
	effects, err := mixer.Collect(renderCtx, events, r.Sink, opts)
	if err != nil {
		return nil, err
	}

	out := mixer.Master(bgm, effects, req.Volume, req.Silent)
	loudness := out.Stats()
	logger.Info("preview rendered",
		zap.Float64("seconds", out.Duration()),
		zap.Float64("peak_dbfs", loudness.Peak),
		zap.Float64("rms_dbfs", loudness.RMS),
		zap.Duration("elapsed", time.Since(started)))
	return &Result{RunID: runID, Level: level, Timing: timing, Sound: out, Loudness: loudness}, nil
}

// Export writes the rendered preview to path. With midi, the timing is also
// written next to it, with the extension replaced by .mid.
func (r *Renderer) Export(res *Result, path string, midi bool) error {
	if err := r.Codec.Encode(res.Sound, path); err != nil {
		return fmt.Errorf("writing %v failed: %w", path, err)
	}
	r.logger().Info("preview written", zap.String("path", path))
	if !midi {
		return nil
	}
	midiPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mid"
	f, err := os.Create(midiPath)
	if err != nil {
		return err
	}
	if err := chartmidi.Write(f, res.Timing); err != nil {
		return errors.Join(fmt.Errorf("writing %v failed: %w", midiPath, err), f.Close())
	}
	if err := f.Close(); err != nil {
		return err
	}
	r.logger().Info("timing written", zap.String("path", midiPath))
	return nil
}

func (r *Renderer) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Renderer) scope() tally.Scope {
	if r.Scope == nil {
		return tally.NoopScope
	}
	return r.Scope
}
