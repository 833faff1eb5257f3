package loaders_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lundis/go-gamesound/internal/wavtest"
	"github.com/Lundis/go-gamesound/loaders"
	"github.com/Lundis/go-gamesound/sample"
	"golang.org/x/tools/godoc/vfs/mapfs"
)

func TestLoadFSWav(t *testing.T) {
	fs := mapfs.New(map[string]string{
		"sounds/click.wav": string(wavtest.Encode(8000, 1, wavtest.Constant(100, 1000))),
	})
	s, err := loaders.LoadFS(fs, "sounds/click.wav")
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	if s.Frames != 100 {
		t.Errorf("Frames = %d, want 100", s.Frames)
	}
}

func TestLoadFSMissing(t *testing.T) {
	fs := mapfs.New(map[string]string{})
	if _, err := loaders.LoadFS(fs, "nope.wav"); err == nil {
		t.Fatalf("LoadFS() of a missing file should fail")
	}
}

func TestUnknownExtension(t *testing.T) {
	_, err := loaders.Default.Decode("song.flac", []byte("fLaC"))
	if !errors.Is(err, loaders.ErrUnknownFormat) {
		t.Fatalf("Decode() error = %v, want ErrUnknownFormat", err)
	}
}

func TestExtensionIsCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "LOUD.WAV")
	if err := os.WriteFile(path, wavtest.Encode(8000, 2, wavtest.Constant(8, 1)), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := loaders.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if s.Channels != 2 || s.Frames != 4 {
		t.Errorf("got %d channels, %d frames", s.Channels, s.Frames)
	}
}

func TestCustomRegistry(t *testing.T) {
	r := loaders.NewRegistry()
	r.Register(".raw", func(rs io.ReadSeeker) (*sample.Sample, error) {
		return sample.FromFloat32([]float32{0.5}, 1, 8000)
	})
	s, err := r.Decode("x.RAW", nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if s.Data[0] != 0.5 {
		t.Errorf("Data[0] = %v, want 0.5", s.Data[0])
	}
	if _, ok := r.Lookup(".wav"); ok {
		t.Errorf("fresh registry should not know .wav")
	}
}
