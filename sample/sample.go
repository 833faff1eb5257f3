// Package sample holds the decoded, in-memory form of a sound clip.
package sample

import (
	"errors"
	"time"
)

// Format tags found in the header of a canonical WAV file.
const (
	FormatPCM       = 1
	FormatIEEEFloat = 3
)

var (
	ErrUnsupportedChannels = errors.New("sample: only mono and stereo sources are supported")
	ErrNoData              = errors.New("sample: no sample data")
	ErrMisaligned          = errors.New("sample: data length is not a multiple of the channel count")
)

// Header mirrors the fixed-layout format header of an uncompressed audio container.
type Header struct {
	FormatTag      uint16
	Channels       uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	ExtraSize      uint16
}

// Sample is a decoded sound clip. It is read-only once created.
//
//	[Data]      = [frame 1] [frame 2] [frame 3] ...
//	[frame *]   = [channel 1] [channel 2] ...
//	[channel *] = [float32 in -1..1]
type Sample struct {
	Header   Header
	Data     []float32
	Frames   int
	Channels int
	Valid    bool
}

// New wraps interleaved, normalized data described by h.
func New(h Header, data []float32) (*Sample, error) {
	channels := int(h.Channels)
	if channels != 1 && channels != 2 {
		return nil, ErrUnsupportedChannels
	}
	if len(data) == 0 {
		return nil, ErrNoData
	}
	if len(data)%channels != 0 {
		return nil, ErrMisaligned
	}
	return &Sample{
		Header:   h,
		Data:     data,
		Frames:   len(data) / channels,
		Channels: channels,
		Valid:    true,
	}, nil
}

// FromFloat32 builds a sample from synthesized float data.
func FromFloat32(data []float32, channels int, sampleRate int) (*Sample, error) {
	h := Header{
		FormatTag:      FormatIEEEFloat,
		Channels:       uint16(channels),
		SampleRate:     uint32(sampleRate),
		AvgBytesPerSec: uint32(sampleRate * channels * 4),
		BlockAlign:     uint16(channels * 4),
		BitsPerSample:  32,
	}
	return New(h, data)
}

// At returns the value of frame for the given output channel.
// Mono sources are replicated to every channel; otherwise channel
// wraps around the source channel count.
func (s *Sample) At(frame, channel int) float32 {
	return s.Data[frame*s.Channels+channel%s.Channels]
}

func (s *Sample) Duration() time.Duration {
	if s.Header.SampleRate == 0 {
		return 0
	}
	return time.Duration(s.Frames) * time.Second / time.Duration(s.Header.SampleRate)
}
