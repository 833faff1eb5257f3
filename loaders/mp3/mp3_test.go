package mp3_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lundis/go-gamesound/loaders/mp3"
)

func TestLoadGarbage(t *testing.T) {
	if _, err := mp3.Load(bytes.NewReader([]byte{0x00, 0x01, 0x02, 0x03})); err == nil {
		t.Fatalf("should not decode garbage without error")
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := mp3.LoadFile(filepath.Join(t.TempDir(), "missing.mp3"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadFile() error = %v, want os.ErrNotExist", err)
	}
}
