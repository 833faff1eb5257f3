// Package mp3 decodes MP3 files into samples.
package mp3

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/Lundis/go-gamesound/sample"
	gomp3 "github.com/hajimehoshi/go-mp3"
)

func LoadFile(path string) (*sample.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open: %w", path, err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Load decodes the whole stream. go-mp3 always yields 16-bit little endian stereo.
func Load(r io.Reader) (*sample.Sample, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	data := make([]float32, len(raw)/2)
	for i := range data {
		data[i] = float32(int16(binary.LittleEndian.Uint16(raw[2*i:]))) / (1 << 15)
	}
	rate := dec.SampleRate()
	header := sample.Header{
		FormatTag:      sample.FormatPCM,
		Channels:       2,
		SampleRate:     uint32(rate),
		AvgBytesPerSec: uint32(rate * 4),
		BlockAlign:     4,
		BitsPerSample:  16,
	}
	return sample.New(header, data[:len(data)/2*2])
}
