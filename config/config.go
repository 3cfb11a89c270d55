// Package config holds the user preferences of the renderer. Defaults are
// embedded; a preferences.yml in the user config directory, or a file given
// explicitly, overrides them key by key.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig"
	"gopkg.in/yaml.v2"
)

const appName = "soundgen"

type (
	Preferences struct {
		BGMVolume      float64 `yaml:"bgmVolume"`
		Shift          float64 `yaml:"shift"`
		Silent         bool    `yaml:"silent"`
		NotesPerTask   int     `yaml:"notesPerTask"`
		FallbackWindow float64 `yaml:"fallbackWindow"`
		Workers        int     `yaml:"workers"`
		Output         string  `yaml:"output"`
		CacheDir       string  `yaml:"cacheDir"`
		FFmpeg         string  `yaml:"ffmpeg"`
	}

	// OutputMeta is what the output path template can refer to.
	OutputMeta struct {
		ID      string
		Title   string
		Artists string
		Author  string
		Rating  int
	}
)

//go:embed default.yml
var defaultPreferencesYaml []byte

// Default returns the embedded defaults.
func Default() Preferences {
	var preferences Preferences
	if err := yaml.UnmarshalStrict(defaultPreferencesYaml, &preferences); err != nil {
		panic(fmt.Errorf("failed to unmarshal default preferences: %w", err))
	}
	return preferences
}

// ReadCustomConfigYml modifies the target argument, i.e. needs a pointer
func ReadCustomConfigYml(filename string, target interface{}) (exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return false, err
	}
	path := filepath.Join(configDir, appName, filename)
	bytes, err2 := os.ReadFile(path)
	if err2 != nil {
		return false, err2
	}
	err = yaml.UnmarshalStrict(bytes, target)
	return true, err
}

// Load returns the defaults overridden by the user's preferences.yml, if
// there is one.
func Load() (Preferences, error) {
	preferences := Default()
	exists, err := ReadCustomConfigYml("preferences.yml", &preferences)
	if exists && err != nil {
		return Default(), fmt.Errorf("preferences.yml is malformed: %w", err)
	}
	return preferences, preferences.Validate()
}

// LoadFile returns the defaults overridden by the file at path. Unknown keys
// are an error.
func LoadFile(path string) (Preferences, error) {
	preferences := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return preferences, err
	}
	if err := yaml.UnmarshalStrict(b, &preferences); err != nil {
		return Default(), fmt.Errorf("%v is malformed: %w", path, err)
	}
	return preferences, preferences.Validate()
}

func (p Preferences) Validate() error {
	var errs []error
	if p.BGMVolume < 0 {
		errs = append(errs, fmt.Errorf("bgmVolume must not be negative, got %v", p.BGMVolume))
	}
	if p.NotesPerTask < 0 {
		errs = append(errs, fmt.Errorf("notesPerTask must not be negative, got %v", p.NotesPerTask))
	}
	if p.FallbackWindow <= 0 {
		errs = append(errs, fmt.Errorf("fallbackWindow must be positive, got %v", p.FallbackWindow))
	}
	if p.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %v", p.Workers))
	}
	if p.Output == "" {
		errs = append(errs, errors.New("output must not be empty"))
	}
	return errors.Join(errs...)
}

// OutputPath expands the output template for a level.
func (p Preferences) OutputPath(meta OutputMeta) (string, error) {
	tmpl, err := template.New("output").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(p.Output)
	if err != nil {
		return "", fmt.Errorf("output template is malformed: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, meta); err != nil {
		return "", fmt.Errorf("expanding the output template failed: %w", err)
	}
	if buf.Len() == 0 {
		return "", errors.New("output template expanded to nothing")
	}
	return filepath.FromSlash(buf.String()), nil
}

// ResolvedCacheDir is the cache directory to use: CacheDir if set, otherwise
// a directory under the user cache directory.
func (p Preferences) ResolvedCacheDir() string {
	if p.CacheDir != "" {
		return p.CacheDir
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", "cache")
	}
	return filepath.Join(dir, appName)
}
