package codec_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/chartpreview/soundgen"
	"github.com/chartpreview/soundgen/codec"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

func sine(frames, rate int) *soundgen.Sound {
	s := &soundgen.Sound{Data: make([]int16, frames*soundgen.Channels), SampleRate: rate}
	for i := range s.Data {
		s.Data[i] = int16((i*37)%2000 - 1000)
	}
	return s
}

func TestDecodeWavExact(t *testing.T) {
	want := sine(100, soundgen.SampleRate)
	b, err := want.Wav()
	require.NoError(t, err)
	got, err := codec.Codec{}.Decode(b)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDecodeWavResamples(t *testing.T) {
	b, err := sine(2400, 24000).Wav()
	require.NoError(t, err)
	got, err := codec.Codec{}.Decode(b)
	require.NoError(t, err)
	require.Equal(t, soundgen.SampleRate, got.SampleRate)
	require.InDelta(t, 0.1, got.Duration(), 0.005)
}

func TestDecodeMonoWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, soundgen.SampleRate, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: soundgen.SampleRate},
		Data:           []int{100, -200, 300},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	got, err := codec.Codec{}.Decode(b)
	require.NoError(t, err)
	require.Equal(t, []int16{100, 100, -200, -200, 300, 300}, got.Data)
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := codec.Codec{}.Decode([]byte("definitely not audio"))
	require.True(t, errors.Is(err, codec.ErrUnsupported))
}

func TestDecodeBank(t *testing.T) {
	b, err := sine(10, soundgen.SampleRate).Wav()
	require.NoError(t, err)
	bank, err := codec.Codec{}.DecodeBank(map[string][]byte{
		"#PERFECT": b,
		"#HOLD":    []byte("garbage that is never decoded"),
	}, []string{"#PERFECT", "Sekai Critical Tap"})
	require.NoError(t, err)
	require.Len(t, bank, 1)
	require.Len(t, bank["#PERFECT"].Data, 20)
	var confErr *soundgen.ConfigurationError
	require.ErrorAs(t, bank.Require("#PERFECT", "Sekai Critical Tap"), &confErr)
}

func TestEncode(t *testing.T) {
	dir := t.TempDir()
	s := sine(50, soundgen.SampleRate)
	wavPath := filepath.Join(dir, "nested", "out.wav")
	require.NoError(t, codec.Codec{}.Encode(s, wavPath))
	b, err := os.ReadFile(wavPath)
	require.NoError(t, err)
	back, err := codec.Codec{}.Decode(b)
	require.NoError(t, err)
	require.Equal(t, s.Data, back.Data)

	rawPath := filepath.Join(dir, "out.raw")
	require.NoError(t, codec.Codec{}.Encode(s, rawPath))
	info, err := os.Stat(rawPath)
	require.NoError(t, err)
	require.Equal(t, int64(len(s.Data)*2), info.Size())

	err = codec.Codec{}.Encode(s, filepath.Join(dir, "out.mp3"))
	require.ErrorIs(t, err, codec.ErrUnsupported)
}

// floatWav builds a 32-bit IEEE float stereo wav with every sample at value.
func floatWav(t *testing.T, frames int, value float32) []byte {
	t.Helper()
	var b bytes.Buffer
	dataSize := uint32(frames * soundgen.Channels * 4)
	w := func(v any) { require.NoError(t, binary.Write(&b, binary.LittleEndian, v)) }
	b.WriteString("RIFF")
	w(36 + dataSize)
	b.WriteString("WAVEfmt ")
	w(uint32(16))
	w(uint16(3)) // IEEE float
	w(uint16(soundgen.Channels))
	w(uint32(soundgen.SampleRate))
	w(uint32(soundgen.SampleRate * soundgen.Channels * 4))
	w(uint16(soundgen.Channels * 4))
	w(uint16(32))
	b.WriteString("data")
	w(dataSize)
	for i := 0; i < frames*soundgen.Channels; i++ {
		w(math.Float32bits(value))
	}
	return b.Bytes()
}

// fakeFFmpeg writes a script that swallows stdin and prints the samples
// 1 and 2 as s16le.
func fakeFFmpeg(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\ncat >/dev/null\nprintf '\\001\\000\\002\\000'\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestDecodeFloatWav(t *testing.T) {
	b := floatWav(t, 10, 0.25)
	_, err := codec.Codec{}.Decode(b)
	require.ErrorIs(t, err, codec.ErrUnsupported)

	got, err := codec.Codec{FFmpeg: fakeFFmpeg(t)}.Decode(b)
	require.NoError(t, err)
	require.Equal(t, []int16{1, 2}, got.Data)
}

func TestDecodeADTSGoesToFFmpeg(t *testing.T) {
	adts := []byte{0xFF, 0xF1, 0x50, 0x80, 0x02, 0x1F, 0xFC}
	_, err := codec.Codec{}.Decode(adts)
	require.ErrorIs(t, err, codec.ErrUnsupported)

	got, err := codec.Codec{FFmpeg: fakeFFmpeg(t)}.Decode(adts)
	require.NoError(t, err)
	require.Equal(t, []int16{1, 2}, got.Data)
}

func TestDecodeFallsBackWhenNativeFails(t *testing.T) {
	broken := append([]byte("ID3"), make([]byte, 7)...)
	_, err := codec.Codec{}.Decode(broken)
	require.Error(t, err)
	require.False(t, errors.Is(err, codec.ErrUnsupported))

	got, err := codec.Codec{FFmpeg: fakeFFmpeg(t)}.Decode(broken)
	require.NoError(t, err)
	require.Equal(t, []int16{1, 2}, got.Data)
}
