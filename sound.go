package soundgen

import (
	"math"

	"github.com/viterin/vek/vek32"
)

const (
	// SampleRate is the rate every Sound is decoded to, in Hz.
	SampleRate = 48000
	// Channels is the number of interleaved channels in a Sound.
	Channels = 2
)

type (
	// Sound is a buffer of interleaved stereo 16-bit samples. len(Data) is
	// always a multiple of Channels. A Sound is owned by whoever produced it;
	// the Overlay methods grow and modify the receiver in place and only read
	// the argument.
	Sound struct {
		Data       []int16
		SampleRate int
	}

	// Loudness summarises the level of a Sound, in dBFS.
	Loudness struct {
		Peak float64
		RMS  float64
	}
)

// NewSound returns an empty Sound. A sampleRate of 0 means SampleRate.
func NewSound(sampleRate int) *Sound {
	if sampleRate <= 0 {
		sampleRate = SampleRate
	}
	return &Sound{SampleRate: sampleRate}
}

// SampleIndex converts a time in seconds into an index of the interleaved
// sample data: the time is converted to frames truncating toward zero, then
// multiplied by the channel count. Negative times map to 0. All the Overlay
// methods use this, so adjacent overlays meet without gaps or overlap.
func SampleIndex(seconds float64, sampleRate int) int {
	if !(seconds > 0) {
		return 0
	}
	return int(seconds*float64(sampleRate)) * Channels
}

// Duration returns the length of the sound in seconds.
func (s *Sound) Duration() float64 {
	if s.SampleRate == 0 {
		return 0
	}
	return float64(len(s.Data)/Channels) / float64(s.SampleRate)
}

// Clone returns a deep copy of the sound.
func (s *Sound) Clone() *Sound {
	data := make([]int16, len(s.Data))
	copy(data, s.Data)
	return &Sound{Data: data, SampleRate: s.SampleRate}
}

// Scale multiplies every sample by factor, truncating toward zero. Products
// outside the 16-bit range are clipped.
func (s *Sound) Scale(factor float64) {
	if len(s.Data) == 0 {
		return
	}
	tmp := make([]float32, len(s.Data))
	for i, v := range s.Data {
		tmp[i] = float32(v)
	}
	vek32.MulNumber_Inplace(tmp, float32(factor))
	for i, v := range tmp {
		s.Data[i] = clamp16(v)
	}
}

// OverlayAt adds other onto s starting at offset seconds, growing s with
// silence if needed. Samples are added with saturation.
func (s *Sound) OverlayAt(other *Sound, offset float64) {
	start := SampleIndex(offset, s.SampleRate)
	s.mix(start, other.Data)
}

// OverlayLoop fills [start, end) of s with other, repeating other from its
// beginning as many times as needed. It is used for hold clips, which are
// usually shorter than the hold itself.
func (s *Sound) OverlayLoop(other *Sound, start, end float64) {
	from := SampleIndex(start, s.SampleRate)
	to := SampleIndex(end, s.SampleRate)
	if to <= from || len(other.Data) == 0 {
		return
	}
	s.grow(to)
	region := s.Data[from:to]
	for i := range region {
		region[i] = addSaturating(region[i], other.Data[i%len(other.Data)])
	}
}

// OverlayUntil adds other onto s at start seconds, but writes nothing at or
// after stop seconds. Exactly min(len(other), index(stop)-index(start))
// samples are written, so a clip cut short by the next note ends on the
// sample right before that note begins.
func (s *Sound) OverlayUntil(other *Sound, start, stop float64) {
	from := SampleIndex(start, s.SampleRate)
	to := SampleIndex(stop, s.SampleRate)
	if to <= from {
		return
	}
	n := min(len(other.Data), to-from)
	s.mix(from, other.Data[:n])
}

// Stats measures the peak and RMS level of the sound.
func (s *Sound) Stats() Loudness {
	if len(s.Data) == 0 {
		return Loudness{Peak: math.Inf(-1), RMS: math.Inf(-1)}
	}
	tmp := make([]float32, len(s.Data))
	for i, v := range s.Data {
		tmp[i] = float32(v) / 32768
	}
	squares := vek32.Mul_Into(make([]float32, len(tmp)), tmp, tmp)
	return Loudness{
		Peak: power2decibel(float64(vek32.Max(squares))),
		RMS:  power2decibel(float64(vek32.Mean(squares))),
	}
}

func (s *Sound) mix(start int, samples []int16) {
	if len(samples) == 0 {
		return
	}
	s.grow(start + len(samples))
	region := s.Data[start : start+len(samples)]
	for i, v := range samples {
		region[i] = addSaturating(region[i], v)
	}
}

// grow extends s with silence so that it holds at least n samples.
func (s *Sound) grow(n int) {
	if n <= len(s.Data) {
		return
	}
	if n <= cap(s.Data) {
		tail := s.Data[len(s.Data):n]
		clear(tail)
		s.Data = s.Data[:n]
		return
	}
	s.Data = append(s.Data, make([]int16, n-len(s.Data))...)
}

func addSaturating(a, b int16) int16 {
	sum := int32(a) + int32(b)
	if sum > math.MaxInt16 {
		return math.MaxInt16
	}
	if sum < math.MinInt16 {
		return math.MinInt16
	}
	return int16(sum)
}

func clamp16(v float32) int16 {
	if v >= math.MaxInt16 {
		return math.MaxInt16
	}
	if v <= math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

func power2decibel(power float64) float64 {
	return 10 * math.Log10(power)
}
