// Package aiff decodes 16-bit PCM AIFF files into samples.
package aiff

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Lundis/go-gamesound/sample"
	"github.com/go-audio/aiff"
)

var (
	ErrNotAiffFile         = errors.New("aiff: invalid header: not a FORM/AIFF file")
	ErrUnsupportedBitDepth = errors.New("aiff: bits per sample must be 16")
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

// Load decodes a 16-bit mono or stereo AIFF into a normalized sample.
func Load(r io.ReadSeeker) (*sample.Sample, error) {
	d := aiff.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("aiff: failed to read header: %w", err)
	}
	if d.BitDepth != 16 {
		return nil, fmt.Errorf("%w: was %d", ErrUnsupportedBitDepth, d.BitDepth)
	}
	if d.NumChans != 1 && d.NumChans != 2 {
		return nil, fmt.Errorf("aiff: number of channels must be 1 or 2 but was %d: %w", d.NumChans, sample.ErrUnsupportedChannels)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("aiff: failed to read PCM data: %w", err)
	}

	data := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		data[i] = float32(int16(v)) / (1 << 15)
	}
	header := sample.Header{
		FormatTag:      sample.FormatPCM,
		Channels:       d.NumChans,
		SampleRate:     uint32(d.SampleRate),
		AvgBytesPerSec: uint32(d.SampleRate) * uint32(d.NumChans) * 2,
		BlockAlign:     d.NumChans * 2,
		BitsPerSample:  16,
	}
	return sample.New(header, data)
}
