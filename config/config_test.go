package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/chartpreview/soundgen/config"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := config.Default()
	require.Equal(t, 1.0, p.BGMVolume)
	require.Equal(t, 5.0, p.FallbackWindow)
	require.Equal(t, 0, p.NotesPerTask)
	require.Equal(t, "ffmpeg", p.FFmpeg)
	require.NoError(t, p.Validate())
	path, err := p.OutputPath(config.OutputMeta{ID: "chcy-abc"})
	require.NoError(t, err)
	require.Equal(t, filepath.Join("dist", "chcy-abc.mp3"), path)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yml")
	require.NoError(t, os.WriteFile(path, []byte("bgmVolume: 0.5\nnotesPerTask: 64\n"), 0644))
	p, err := config.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 0.5, p.BGMVolume)
	require.Equal(t, 64, p.NotesPerTask)
	require.Equal(t, 5.0, p.FallbackWindow, "keys not in the file keep their defaults")
}

func TestLoadFileRejects(t *testing.T) {
	for name, content := range map[string]string{
		"unknown key":     "volume: 2\n",
		"negative volume": "bgmVolume: -1\n",
		"zero window":     "fallbackWindow: 0\n",
		"empty output":    "output: \"\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.yml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			_, err := config.LoadFile(path)
			require.Error(t, err)
		})
	}
}

func TestLoadFromUserConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on XDG_CONFIG_HOME")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	p, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.Default(), p, "no preferences.yml means defaults")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "soundgen"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "soundgen", "preferences.yml"), []byte("silent: true\n"), 0644))
	p, err = config.Load()
	require.NoError(t, err)
	require.True(t, p.Silent)
}

func TestOutputPathTemplate(t *testing.T) {
	p := config.Default()
	p.Output = `out/{{ .Title | lower | replace " " "_" }}-{{ .Rating }}.wav`
	path, err := p.OutputPath(config.OutputMeta{ID: "x", Title: "Hello World", Rating: 30})
	require.NoError(t, err)
	require.Equal(t, filepath.Join("out", "hello_world-30.wav"), path)

	p.Output = "{{ .Missing }}"
	_, err = p.OutputPath(config.OutputMeta{})
	require.Error(t, err)
}

func TestResolvedCacheDir(t *testing.T) {
	p := config.Default()
	p.CacheDir = "somewhere"
	require.Equal(t, "somewhere", p.ResolvedCacheDir())
	p.CacheDir = ""
	require.NotEmpty(t, p.ResolvedCacheDir())
}
