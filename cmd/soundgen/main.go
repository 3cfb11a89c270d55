package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chartpreview/soundgen/codec"
	"github.com/chartpreview/soundgen/config"
	"github.com/chartpreview/soundgen/mixer"
	"github.com/chartpreview/soundgen/preview"
	"github.com/chartpreview/soundgen/sonolus"
	"github.com/chartpreview/soundgen/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	help := flag.Bool("h", false, "Show help.")
	bgmPath := flag.String("b", "", "Use this audio file as the background music instead of the level's.")
	volume := flag.Float64("volume", 1, "Volume of the background music. 1 keeps it as is.")
	shift := flag.Float64("shift", 0, "Seconds added to the time of every note.")
	silent := flag.Bool("S", false, "Render the effects only, without background music.")
	notesPerTask := flag.Int("n", 0, "Instants rendered per task. 0 renders every clip in one task.")
	outPath := flag.String("o", "", "Output file. The extension picks the format: .wav and .raw are written directly, anything else is encoded with ffmpeg. By default, the output template of the preferences is used.")
	chartPath := flag.String("c", "", "Render this local chart file (.json or .yml, optionally gzipped) instead of fetching a level.")
	effectDir := flag.String("e", "", "Directory with the effect clips of a local chart, listed in clips.json or clips.yml.")
	midiOut := flag.Bool("m", false, "Also write the timing of the notes as a .mid file next to the output.")
	debug := flag.Bool("d", false, "Log debug messages.")
	configPath := flag.String("config", "", "Read the preferences from this file instead of the user config directory.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		return 0
	}
	if *help {
		flag.Usage()
		return 0
	}
	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	var prefs config.Preferences
	if *configPath != "" {
		prefs, err = config.LoadFile(*configPath)
	} else {
		prefs, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load preferences: %v\n", err)
		return 1
	}
	// flags given explicitly win over the preferences
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "volume":
			prefs.BGMVolume = *volume
		case "shift":
			prefs.Shift = *shift
		case "S":
			prefs.Silent = *silent
		case "n":
			prefs.NotesPerTask = *notesPerTask
		}
	})
	if err := prefs.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings: %v\n", err)
		return 1
	}

	id := strings.TrimSpace(flag.Arg(0))
	if id == "" && *chartPath == "" {
		if id, err = prompt("Level id: "); err != nil || id == "" {
			fmt.Fprintf(os.Stderr, "no level given\n")
			return 1
		}
	}
	music := *bgmPath
	if prefs.Silent {
		music = ""
	}
	catalog, override, err := source(*chartPath, *effectDir, music, prefs.ResolvedCacheDir(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	req := preview.Request{
		ID:     sonolus.TrimID(id),
		BGM:    override,
		Volume: prefs.BGMVolume,
		Shift:  prefs.Shift,
		Silent: prefs.Silent,
		Mixer: mixer.Options{
			NotesPerTask:   prefs.NotesPerTask,
			FallbackWindow: prefs.FallbackWindow,
			Workers:        prefs.Workers,
		},
	}
	sink := newTerminalSink(os.Stderr, isTerminal(os.Stderr))
	renderer := &preview.Renderer{
		Catalog: catalog,
		Codec:   codec.Codec{FFmpeg: prefs.FFmpeg, Logger: logger},
		Logger:  logger,
		Sink:    sink,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := renderer.Render(ctx, req)
	sink.Close()
	if err != nil {
		logger.Error("rendering failed", zap.Error(err))
		return 1
	}
	path := *outPath
	if path == "" {
		info := res.Level.Info
		if path, err = prefs.OutputPath(config.OutputMeta{
			ID:      info.Name,
			Title:   info.Title,
			Artists: info.Artists,
			Author:  info.Author,
			Rating:  info.Rating,
		}); err != nil {
			logger.Error("could not decide the output path", zap.Error(err))
			return 1
		}
	}
	if err := renderer.Export(res, path, *midiOut); err != nil {
		logger.Error("writing the preview failed", zap.Error(err))
		return 1
	}
	return 0
}

// source picks where the chart and its music come from. A local chart takes
// bgm as its music; a level fetched by id has its music replaced by bgm.
func source(chart, effects, bgm, cacheDir string, logger *zap.Logger) (preview.Catalog, []byte, error) {
	if chart != "" {
		return sonolus.LocalCatalog{ChartPath: chart, EffectDir: effects, BGMPath: bgm}, nil, nil
	}
	var override []byte
	if bgm != "" {
		b, err := os.ReadFile(bgm)
		if err != nil {
			return nil, nil, fmt.Errorf("could not read file %v: %w", bgm, err)
		}
		override = b
	}
	return sonolus.NewClient(cacheDir, logger), override, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg.DisableStacktrace = true
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.DisableStacktrace = false
	}
	return cfg.Build()
}

func prompt(question string) (string, error) {
	fmt.Fprint(os.Stderr, question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Renders the audio preview of a chart: its music with the sound effects of every note.\nUsage: %s [flags] [level id]\n", os.Args[0])
	flag.PrintDefaults()
}
