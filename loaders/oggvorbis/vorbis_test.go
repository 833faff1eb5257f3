package oggvorbis_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lundis/go-gamesound/loaders/oggvorbis"
)

func TestLoadGarbage(t *testing.T) {
	_, err := oggvorbis.Load(bytes.NewReader([]byte("OggS but not really an ogg stream")))
	if err == nil {
		t.Fatalf("should not decode garbage without error")
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := oggvorbis.LoadFile(filepath.Join(t.TempDir(), "missing.ogg"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadFile() error = %v, want os.ErrNotExist", err)
	}
}
