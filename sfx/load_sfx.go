package sfx

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/Lundis/go-gamesound/audio"
	"github.com/Lundis/go-gamesound/loaders"
	"github.com/Lundis/go-gamesound/sample"
	"golang.org/x/tools/godoc/vfs"
)

// Engine is the part of audio.Engine a Library plays through.
type Engine interface {
	AddSample(s *sample.Sample) (audio.SampleID, error)
	PlaySample(id audio.SampleID, loop bool)
}

// Library holds loaded sound effects. It is safe for concurrent use.
type Library struct {
	lock    sync.Mutex
	engine  Engine
	effects map[Id]*Sfx
	rand    func() float64
}

// LoadFolder loads sound effects from a regular folder.
// See Load for more information.
func LoadFolder(engine Engine, folder string) (*Library, error) {
	return Load(engine, vfs.OS(folder))
}

// Load loads sound effects from a virtual filesystem.
// At the root of the filesystem there must be a "sfx.json" file, which references any files to be loaded.
// Files that fail to load are logged and skipped.
func Load(engine Engine, fileSystem vfs.Opener) (*Library, error) {
	start := time.Now()
	soundEffects, err := loadRegistry(fileSystem, "sfx.json")
	if err != nil {
		return nil, err
	}
	loaded := make(map[string]audio.SampleID)
	effects := make(map[Id]*Sfx, len(soundEffects))
	for _, e := range soundEffects {
		for _, v := range e.Variations {
			id, ok := loaded[v.Path]
			if !ok {
				id = loadSample(engine, fileSystem, v.Path)
				loaded[v.Path] = id
			}
			v.sample = id
		}
		effects[e.Id] = e
	}

	log.Printf("Loaded %d sound effects in %.2fs\n", len(effects),
		time.Since(start).Seconds())
	return &Library{
		engine:  engine,
		effects: effects,
		rand:    rand.Float64,
	}, nil
}

func loadSample(engine Engine, fs vfs.Opener, path string) audio.SampleID {
	s, err := loaders.LoadFS(fs, path)
	if err != nil {
		log.Println("Failed to load sound effect", path, ":", err.Error())
		return audio.InvalidSample
	}
	id, err := engine.AddSample(s)
	if err != nil {
		log.Println("Failed to add sound effect", path, ":", err.Error())
		return audio.InvalidSample
	}
	return id
}

func loadRegistry(fs vfs.Opener, path string) (registry []*Sfx, err error) {
	data, err := loaders.ReadFile(fs, path)
	if err != nil {
		err = fmt.Errorf("failed to open %s: %w", path, err)
		return
	}
	err = json.Unmarshal(data, &registry)
	if err != nil {
		err = fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return
}
