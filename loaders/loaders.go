// Package loaders turns audio files into samples, picking a decoder by file extension.
package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/Lundis/go-gamesound/loaders/aiff"
	"github.com/Lundis/go-gamesound/loaders/mp3"
	"github.com/Lundis/go-gamesound/loaders/oggvorbis"
	"github.com/Lundis/go-gamesound/loaders/wav"
	"github.com/Lundis/go-gamesound/sample"
	"golang.org/x/tools/godoc/vfs"
)

var ErrUnknownFormat = errors.New("loaders: no decoder registered for file extension")

// Decoder decodes a complete file into a sample.
type Decoder func(r io.ReadSeeker) (*sample.Sample, error)

// Registry maps lower case file extensions (".wav") to decoders.
type Registry struct {
	mtx    sync.RWMutex
	codecs map[string]Decoder
}

// Default knows about .wav, .aiff, .ogg and .mp3.
var Default = NewRegistry()

func init() {
	Default.Register(".wav", wav.LoadWav)
	Default.Register(".ogg", func(r io.ReadSeeker) (*sample.Sample, error) { return oggvorbis.Load(r) })
	Default.Register(".aiff", aiff.Load)
	Default.Register(".aif", aiff.Load)
	Default.Register(".mp3", func(r io.ReadSeeker) (*sample.Sample, error) { return mp3.Load(r) })
}

func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

func (r *Registry) Register(ext string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.codecs[strings.ToLower(ext)] = d
}

func (r *Registry) Lookup(ext string) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	d, ok := r.codecs[strings.ToLower(ext)]
	return d, ok
}

// Decode decodes data using the decoder registered for name's extension.
func (r *Registry) Decode(name string, data []byte) (*sample.Sample, error) {
	d, ok := r.Lookup(path.Ext(name))
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownFormat)
	}
	s, err := d(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

func (r *Registry) LoadFile(name string) (*sample.Sample, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open: %w", name, err)
	}
	return r.Decode(name, data)
}

// LoadFS loads a sample from a virtual filesystem such as a resource pack.
func (r *Registry) LoadFS(fs vfs.Opener, name string) (*sample.Sample, error) {
	data, err := ReadFile(fs, name)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open: %w", name, err)
	}
	return r.Decode(name, data)
}

func LoadFile(name string) (*sample.Sample, error) {
	return Default.LoadFile(name)
}

func LoadFS(fs vfs.Opener, name string) (*sample.Sample, error) {
	return Default.LoadFS(fs, name)
}

// ReadFile reads a whole file from a virtual filesystem.
func ReadFile(fs vfs.Opener, name string) (data []byte, err error) {
	file, err := fs.Open(name)
	if err != nil {
		return
	}
	data, err = io.ReadAll(file)
	_ = file.Close()
	return
}
