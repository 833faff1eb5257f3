package aiff_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lundis/go-gamesound/internal/wavtest"
	"github.com/Lundis/go-gamesound/loaders/aiff"
)

func TestLoadStereo(t *testing.T) {
	data := wavtest.EncodeAIFF(44100, 2, []int16{16384, -16384, 0, 8192})
	s, err := aiff.Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Channels != 2 || s.Frames != 2 {
		t.Fatalf("got %d channels, %d frames; want 2, 2", s.Channels, s.Frames)
	}
	if s.Header.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", s.Header.SampleRate)
	}
	if got := s.At(0, 0); got != 0.5 {
		t.Errorf("At(0, 0) = %v, want 0.5", got)
	}
	if got := s.At(0, 1); got != -0.5 {
		t.Errorf("At(0, 1) = %v, want -0.5", got)
	}
}

func TestLoadNotAiff(t *testing.T) {
	data := wavtest.Encode(44100, 1, wavtest.Constant(4, 0))
	if _, err := aiff.Load(bytes.NewReader(data)); !errors.Is(err, aiff.ErrNotAiffFile) {
		t.Fatalf("Load() of a WAV file error = %v, want ErrNotAiffFile", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := aiff.LoadFile(filepath.Join(t.TempDir(), "missing.aiff"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadFile() error = %v, want os.ErrNotExist", err)
	}
}
