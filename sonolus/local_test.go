package sonolus_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/chartpreview/soundgen/sonolus"
	"github.com/stretchr/testify/require"
)

const levelYAML = `bgmOffset: 0.25
entities:
  - archetype: "#BPM_CHANGE"
    data: [{name: "#BEAT", value: 0}, {name: "#BPM", value: 90}]
  - archetype: NormalSlideStartNote
    name: head
    data: [{name: "#BEAT", value: 1}]
  - archetype: NormalSlideConnector
    data: [{name: head, ref: head}, {name: tail, ref: head}]
`

func TestParseLevelData(t *testing.T) {
	for name, data := range map[string][]byte{
		"json":      []byte(levelJSON),
		"gzip json": gzipped(t, levelJSON),
	} {
		t.Run(name, func(t *testing.T) {
			level, err := sonolus.ParseLevelData(data)
			require.NoError(t, err)
			require.Equal(t, 0.5, level.BGMOffset)
			v, ok := level.Entities[1].Value("#BEAT")
			require.True(t, ok)
			require.Equal(t, 2.0, v)
		})
	}
	level, err := sonolus.ParseLevelData([]byte(levelYAML))
	require.NoError(t, err)
	require.Equal(t, 0.25, level.BGMOffset)
	require.Len(t, level.Entities, 3)
	ref, ok := level.Entities[2].RefName("tail")
	require.True(t, ok)
	require.Equal(t, "head", ref)

	_, err = sonolus.ParseLevelData([]byte("{not json"))
	require.Error(t, err)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestLoadLocalEffect(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"clips.yml":   "clips:\n  - {name: '#PERFECT', filename: perfect.wav}\n",
		"perfect.wav": "wave",
	})
	effect, err := sonolus.LoadLocalEffect(dir)
	require.NoError(t, err)
	require.Equal(t, sonolus.Effect{"#PERFECT": []byte("wave")}, effect)

	_, err = sonolus.LoadLocalEffect(writeFiles(t, map[string]string{
		"clips.json": `{"clips":[{"name":"#HOLD","filename":"hold.wav"}]}`,
	}))
	require.ErrorContains(t, err, "#HOLD")

	_, err = sonolus.LoadLocalEffect(t.TempDir())
	require.ErrorContains(t, err, "no clip list")
}

func TestLocalCatalog(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"song.yml":    levelYAML,
		"clips.json":  `{"clips":[{"name":"#PERFECT","filename":"perfect.wav"}]}`,
		"perfect.wav": "wave",
		"bgm.mp3":     "music",
	})
	cat := sonolus.LocalCatalog{ChartPath: filepath.Join(dir, "song.yml"), EffectDir: dir}
	ctx := context.Background()
	level, err := cat.FetchLevel(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "song", level.Info.Name)
	_, err = cat.FetchBGM(ctx, level)
	require.Error(t, err, "no music was given")
	cat.BGMPath = filepath.Join(dir, "bgm.mp3")
	bgm, err := cat.FetchBGM(ctx, level)
	require.NoError(t, err)
	require.Equal(t, []byte("music"), bgm)
	effect, err := cat.FetchEffect(ctx, level)
	require.NoError(t, err)
	require.Contains(t, effect, "#PERFECT")
}
