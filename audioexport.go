package soundgen

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Wav returns the sound as a 16-bit PCM .wav file.
func (s *Sound) Wav() ([]byte, error) {
	buf := new(bytes.Buffer)
	wavHeader(len(s.Data), s.SampleRate, buf)
	if err := binary.Write(buf, binary.LittleEndian, s.Data); err != nil {
		return nil, fmt.Errorf("Wav failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Raw returns the samples as headerless signed 16-bit little-endian data,
// which is what ffmpeg expects with "-f s16le".
func (s *Sound) Raw() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Grow(len(s.Data) * 2)
	if err := binary.Write(buf, binary.LittleEndian, s.Data); err != nil {
		return nil, fmt.Errorf("Raw failed: %w", err)
	}
	return buf.Bytes(), nil
}

// wavHeader writes the header of a stereo 16-bit PCM .wav file into buf.
// bufferLength is the number of samples (L + R counted separately).
func wavHeader(bufferLength int, sampleRate int, buf *bytes.Buffer) {
	// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
	const bytesPerSample = 2
	chunkSize := 36 + bytesPerSample*bufferLength
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(chunkSize))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(16))                                 // fmt chunk size
	binary.Write(buf, binary.LittleEndian, uint16(1))                                  // PCM
	binary.Write(buf, binary.LittleEndian, uint16(Channels))                           // channels
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))                         // sample rate
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*Channels*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(Channels*bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))                   // bits per sample
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(bytesPerSample*bufferLength))
}
