// Copyright 2016 Hajime Hoshi
// Copyright 2025 Lundis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package wav provides WAV (RIFF) decoder.
package wav

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Lundis/go-gamesound/sample"
	"github.com/go-audio/wav"
)

var (
	ErrNotWavFile          = errors.New("wav: invalid header: not a RIFF/WAVE file")
	ErrUnsupportedFormat   = errors.New("wav: format must be linear PCM")
	ErrUnsupportedBitDepth = errors.New("wav: bits per sample must be 16")
)

func LoadWavFile(path string) (*sample.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open: %w", path, err)
	}
	defer f.Close()

	s, err := LoadWav(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadWav decodes a 16-bit mono or stereo PCM WAV into a normalized sample.
func LoadWav(r io.ReadSeeker) (*sample.Sample, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		if err := d.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}
		return nil, ErrNotWavFile
	}
	if d.WavAudioFormat != sample.FormatPCM {
		return nil, fmt.Errorf("%w: format tag was %d", ErrUnsupportedFormat, d.WavAudioFormat)
	}
	if d.BitDepth != 16 {
		return nil, fmt.Errorf("%w: was %d", ErrUnsupportedBitDepth, d.BitDepth)
	}
	if d.NumChans != 1 && d.NumChans != 2 {
		return nil, fmt.Errorf("wav: number of channels must be 1 or 2 but was %d: %w", d.NumChans, sample.ErrUnsupportedChannels)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: failed to read PCM data: %w", err)
	}

	header := sample.Header{
		FormatTag:      d.WavAudioFormat,
		Channels:       d.NumChans,
		SampleRate:     d.SampleRate,
		AvgBytesPerSec: d.AvgBytesPerSec,
		BlockAlign:     d.NumChans * d.BitDepth / 8,
		BitsPerSample:  d.BitDepth,
	}
	return sample.New(header, convertInt16ToFloat32(buf.Data))
}

func convertInt16ToFloat32(i16 []int) []float32 {
	f32 := make([]float32, len(i16))
	for i, v := range i16 {
		f32[i] = float32(int16(v)) / (1 << 15)
	}
	return f32
}
