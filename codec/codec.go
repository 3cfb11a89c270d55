// Package codec turns encoded audio files into Sounds and back.
//
// PCM WAV, MP3, FLAC and Ogg Vorbis are decoded natively. Anything else,
// files the native decoders reject, and any output format other than .wav or
// .raw go through an ffmpeg binary when one is configured.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chartpreview/soundgen"
	"github.com/go-audio/wav"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"go.uber.org/zap"
)

// Codec decodes to and encodes from soundgen.SampleRate stereo Sounds.
type Codec struct {
	// FFmpeg is the ffmpeg executable. Empty disables formats that need it.
	FFmpeg string
	Logger *zap.Logger
}

// ErrUnsupported is returned for formats that cannot be handled without
// ffmpeg.
var ErrUnsupported = errors.New("unsupported audio format")

const (
	resampleQuality = 4
	wavFormatPCM    = 1
	streamChunk     = 4096
	// Bitrate is the constant bitrate of audio encoded through ffmpeg.
	Bitrate = "480k"
)

// Decode decodes an audio file of any supported format, resampling it to
// soundgen.SampleRate stereo. Files the native decoders reject are handed to
// ffmpeg when one is configured.
func (c Codec) Decode(data []byte) (*soundgen.Sound, error) {
	s, err := decodeNative(data)
	if err == nil {
		return s, nil
	}
	if c.FFmpeg == "" {
		return nil, err
	}
	if !errors.Is(err, ErrUnsupported) {
		c.logger().Debug("native decoding failed, trying ffmpeg", zap.Error(err))
	}
	return c.decodeFFmpeg(data)
}

func decodeNative(data []byte) (*soundgen.Sound, error) {
	switch sniff(data) {
	case "wav":
		return decodeWav(data)
	case "flac":
		s, format, err := flac.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding flac failed: %w", err)
		}
		defer s.Close()
		return drain(s, format.SampleRate)
	case "vorbis":
		s, format, err := vorbis.Decode(io.NopCloser(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("decoding vorbis failed: %w", err)
		}
		defer s.Close()
		return drain(s, format.SampleRate)
	case "mp3":
		s, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("decoding mp3 failed: %w", err)
		}
		defer s.Close()
		return drain(s, format.SampleRate)
	}
	return nil, ErrUnsupported
}

// DecodeBank decodes the named clips of an effect. Clips not listed are left
// undecoded; listed clips missing from the effect are left out of the bank,
// to be reported by EffectBank.Require.
func (c Codec) DecodeBank(files map[string][]byte, clips []string) (soundgen.EffectBank, error) {
	ret := make(soundgen.EffectBank, len(clips))
	for _, name := range clips {
		data, ok := files[name]
		if !ok {
			continue
		}
		s, err := c.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decoding clip %q failed: %w", name, err)
		}
		ret[name] = s
	}
	return ret, nil
}

func sniff(data []byte) string {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return "wav"
	case bytes.HasPrefix(data, []byte("fLaC")):
		return "flac"
	case bytes.HasPrefix(data, []byte("OggS")):
		return "vorbis"
	case bytes.HasPrefix(data, []byte("ID3")), isMP3Frame(data):
		return "mp3"
	}
	return ""
}

// isMP3Frame reports whether data starts with an MPEG audio frame sync.
// Layer bits 00 are reserved; ADTS AAC frames carry them.
func isMP3Frame(data []byte) bool {
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0 && data[1]&0x06 != 0
}

func decodeWav(data []byte) (*soundgen.Sound, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, errors.New("invalid wav file")
	}
	if d.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("wav format %d: %w", d.WavAudioFormat, ErrUnsupported)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding wav failed: %w", err)
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, errors.New("wav file has no channels")
	}
	depth := int(d.BitDepth)
	rate := buf.Format.SampleRate
	count := len(buf.Data) / channels
	if depth == 16 && channels == soundgen.Channels && rate == soundgen.SampleRate {
		s := &soundgen.Sound{Data: make([]int16, count*soundgen.Channels), SampleRate: rate}
		for i := range s.Data {
			s.Data[i] = int16(buf.Data[i])
		}
		return s, nil
	}
	scale := math.Ldexp(1, depth-1)
	frames := make([][2]float64, count)
	for i := range frames {
		left := buf.Data[i*channels]
		right := left
		if channels > 1 {
			right = buf.Data[i*channels+1]
		}
		if depth == 8 {
			left, right = left-128, right-128 // 8-bit wav is unsigned
		}
		frames[i] = [2]float64{float64(left) / scale, float64(right) / scale}
	}
	return drain(&frameStreamer{frames: frames}, beep.SampleRate(rate))
}

// drain reads the whole stream, resampling it to soundgen.SampleRate.
func drain(s beep.Streamer, rate beep.SampleRate) (*soundgen.Sound, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %v", rate)
	}
	if rate != soundgen.SampleRate {
		s = beep.Resample(resampleQuality, rate, soundgen.SampleRate, s)
	}
	ret := soundgen.NewSound(soundgen.SampleRate)
	buf := make([][2]float64, streamChunk)
	for {
		n, ok := s.Stream(buf)
		for _, f := range buf[:n] {
			ret.Data = append(ret.Data, toInt16(f[0]), toInt16(f[1]))
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

func toInt16(v float64) int16 {
	v *= 32768
	if v >= math.MaxInt16 {
		return math.MaxInt16
	}
	if v <= math.MinInt16 {
		return math.MinInt16
	}
	return int16(math.Round(v))
}

type frameStreamer struct {
	frames [][2]float64
	pos    int
}

func (f *frameStreamer) Stream(samples [][2]float64) (int, bool) {
	if f.pos >= len(f.frames) {
		return 0, false
	}
	n := copy(samples, f.frames[f.pos:])
	f.pos += n
	return n, true
}

func (f *frameStreamer) Err() error { return nil }

// Encode writes the sound to path. The format is chosen by the extension:
// .wav and .raw are written directly, anything else is encoded by ffmpeg at
// Bitrate. The directory of path is created if needed.
func (c Codec) Encode(sound *soundgen.Sound, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory failed: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		b, err := sound.Wav()
		if err != nil {
			return err
		}
		return os.WriteFile(path, b, 0644)
	case ".raw":
		b, err := sound.Raw()
		if err != nil {
			return err
		}
		return os.WriteFile(path, b, 0644)
	}
	if c.FFmpeg == "" {
		return fmt.Errorf("writing %v: %w", path, ErrUnsupported)
	}
	raw, err := sound.Raw()
	if err != nil {
		return err
	}
	rate := strconv.Itoa(sound.SampleRate)
	_, err = c.run(raw,
		"-y", "-f", "s16le", "-c:a", "pcm_s16le", "-ar", rate, "-ac", strconv.Itoa(soundgen.Channels), "-i", "-",
		"-b:a", Bitrate, "-maxrate", Bitrate, "-minrate", Bitrate, "-bufsize", Bitrate,
		path)
	return err
}

func (c Codec) decodeFFmpeg(data []byte) (*soundgen.Sound, error) {
	out, err := c.run(data,
		"-i", "-", "-f", "s16le", "-c:a", "pcm_s16le",
		"-ar", strconv.Itoa(soundgen.SampleRate), "-ac", strconv.Itoa(soundgen.Channels), "-")
	if err != nil {
		return nil, err
	}
	ret := soundgen.NewSound(soundgen.SampleRate)
	ret.Data = make([]int16, len(out)/2/soundgen.Channels*soundgen.Channels)
	for i := range ret.Data {
		ret.Data[i] = int16(uint16(out[2*i]) | uint16(out[2*i+1])<<8)
	}
	return ret, nil
}

func (c Codec) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c Codec) run(stdin []byte, args ...string) ([]byte, error) {
	logger := c.logger()
	args = append([]string{"-hide_banner", "-loglevel", "error"}, args...)
	logger.Debug("running ffmpeg", zap.Strings("args", args))
	cmd := exec.Command(c.FFmpeg, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w: %v", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
