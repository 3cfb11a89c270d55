package sonolus

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chartpreview/soundgen"
	"gopkg.in/yaml.v3"
)

// clip lists looked for in a local effect directory, in order
var clipListNames = []string{"clips.json", "clips.yml", "clips.yaml"}

// ParseLevelData decodes chart data. The data may be gzip compressed, and
// either JSON, as served by the servers, or YAML, which is easier to write
// by hand.
func ParseLevelData(data []byte) (soundgen.LevelData, error) {
	var ret soundgen.LevelData
	if err := unmarshal(data, &ret); err != nil {
		return soundgen.LevelData{}, err
	}
	return ret, nil
}

// ParseEffectData decodes an effect clip list, in the same formats as
// ParseLevelData.
func ParseEffectData(data []byte) (EffectData, error) {
	var ret EffectData
	if err := unmarshal(data, &ret); err != nil {
		return EffectData{}, err
	}
	return ret, nil
}

func unmarshal(data []byte, target any) error {
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return err
		}
		defer r.Close()
		if data, err = io.ReadAll(r); err != nil {
			return fmt.Errorf("decompressing failed: %w", err)
		}
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return json.Unmarshal(trimmed, target)
	}
	return yaml.Unmarshal(trimmed, target)
}

// LoadLocalEffect reads an effect from a directory holding a clip list
// (clips.json, clips.yml or clips.yaml) and the audio files it names.
func LoadLocalEffect(dir string) (Effect, error) {
	var list []byte
	for _, name := range clipListNames {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		list = b
		break
	}
	if list == nil {
		return nil, fmt.Errorf("no clip list (%v) in %v", strings.Join(clipListNames, ", "), dir)
	}
	clips, err := ParseEffectData(list)
	if err != nil {
		return nil, fmt.Errorf("clip list in %v is malformed: %w", dir, err)
	}
	ret := make(Effect, len(clips.Clips))
	for _, clip := range clips.Clips {
		b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(clip.Filename)))
		if err != nil {
			return nil, fmt.Errorf("reading clip %q failed: %w", clip.Name, err)
		}
		ret[clip.Name] = b
	}
	return ret, nil
}

// LocalCatalog serves a single chart from local files. BGMPath may be empty
// when the render is silent or the music is given separately.
type LocalCatalog struct {
	ChartPath string
	EffectDir string
	BGMPath   string
}

func (l LocalCatalog) FetchLevel(ctx context.Context, id string) (*Level, error) {
	b, err := os.ReadFile(l.ChartPath)
	if err != nil {
		return nil, err
	}
	data, err := ParseLevelData(b)
	if err != nil {
		return nil, fmt.Errorf("chart %v is malformed: %w", l.ChartPath, err)
	}
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(l.ChartPath), filepath.Ext(l.ChartPath))
	}
	return &Level{
		Server: Server{ID: "local", Name: "Local"},
		Info:   LevelInfo{Name: id, Title: id},
		Data:   data,
	}, nil
}

func (l LocalCatalog) FetchBGM(ctx context.Context, level *Level) ([]byte, error) {
	if l.BGMPath == "" {
		return nil, errors.New("a local chart needs its music given as a file")
	}
	return os.ReadFile(l.BGMPath)
}

func (l LocalCatalog) FetchEffect(ctx context.Context, level *Level) (Effect, error) {
	if l.EffectDir == "" {
		return nil, errors.New("a local chart needs an effect directory")
	}
	return LoadLocalEffect(l.EffectDir)
}
