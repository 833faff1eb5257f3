package playlist

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Lundis/go-gamesound/loaders"
	"golang.org/x/tools/godoc/vfs"
)

// LoadFolder loads playlists from a regular folder.
// See Load for more information.
func LoadFolder(engine Engine, folder string) (*Player, error) {
	return Load(engine, vfs.OS(folder))
}

// Load loads playlists from a virtual filesystem.
// At the root of the filesystem there must be a "playlist.json" file, which references any files to be loaded.
// A playlist with a track that fails to load, or without tracks, is skipped.
func Load(engine Engine, fileSystem vfs.Opener) (*Player, error) {
	start := time.Now()
	playlists, err := loadRegistry(fileSystem, "playlist.json")
	if err != nil {
		return nil, err
	}
	loaded := make(map[Id]*PlayList, len(playlists))
playlistLoop:
	for _, pl := range playlists {
		if len(pl.Tracks) == 0 {
			log.Println("Skipping empty playlist", pl.Id)
			continue
		}
		for _, track := range pl.Tracks {
			s, err := loaders.LoadFS(fileSystem, track.Path)
			if err != nil {
				log.Println("Failed to load music track", track.Path, ":", err.Error())
				continue playlistLoop
			}
			track.sample, err = engine.AddSample(s)
			if err != nil {
				log.Println("Failed to add music track", track.Path, ":", err.Error())
				continue playlistLoop
			}
		}
		loaded[pl.Id] = pl
	}

	log.Printf("Loaded %d playlists in %.2fs\n", len(loaded),
		time.Since(start).Seconds())
	return &Player{engine: engine, playLists: loaded}, nil
}

func loadRegistry(fs vfs.Opener, path string) (registry []*PlayList, err error) {
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
