package playlist

import (
	"sync"

	"github.com/Lundis/go-gamesound/audio"
	"github.com/Lundis/go-gamesound/sample"
)

// Engine is the part of audio.Engine a Player plays through.
type Engine interface {
	AddSample(s *sample.Sample) (audio.SampleID, error)
	PlaySample(id audio.SampleID, loop bool)
	StopSample(id audio.SampleID)
	IsPlaying(id audio.SampleID) bool
}

type Id string

type PlayList struct {
	Id           Id
	Tracks       []*Track
	currentTrack int
}

type Track struct {
	Path   string
	Name   string
	Author string
	sample audio.SampleID
}

// Player plays one playlist at a time. A playlist with a single track loops
// it; longer playlists move to the next track when Update notices that the
// current one has ended.
type Player struct {
	lock      sync.Mutex
	engine    Engine
	playLists map[Id]*PlayList
	current   *PlayList
	playing   bool
}

// Play starts the playlist, or resumes it if it is the current one and was stopped.
// It reports whether the playlist exists.
func (p *Player) Play(playListId Id) bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.current != nil && p.current.Id == playListId {
		if !p.playing {
			p.current.play(p.engine)
			p.playing = true
		}
		return true
	}
	pl, ok := p.playLists[playListId]
	if !ok {
		return false
	}
	if p.current != nil {
		p.current.stop(p.engine)
	}
	p.current = pl
	p.current.play(p.engine)
	p.playing = true
	return true
}

// Stop stops the current track. Play resumes at the start of that track.
func (p *Player) Stop() {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.current != nil {
		p.current.stop(p.engine)
	}
	p.playing = false
}

// Next skips to the next track of the current playlist.
func (p *Player) Next() {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.current != nil && p.playing {
		p.current.playNext(p.engine)
	}
}

// Update advances to the next track once the current one has ended.
// Call it regularly, e.g. once per frame.
func (p *Player) Update() {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.current == nil || !p.playing || len(p.current.Tracks) < 2 {
		return
	}
	if !p.engine.IsPlaying(p.current.Tracks[p.current.currentTrack].sample) {
		p.current.playNext(p.engine)
	}
}

// Current returns the current playlist and track, or nil if nothing was played yet.
func (p *Player) Current() (*PlayList, *Track) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.current == nil {
		return nil, nil
	}
	return p.current, p.current.Tracks[p.current.currentTrack]
}

func (pl *PlayList) play(engine Engine) {
	track := pl.Tracks[pl.currentTrack]
	if !engine.IsPlaying(track.sample) {
		engine.PlaySample(track.sample, len(pl.Tracks) == 1)
	}
}

func (pl *PlayList) stop(engine Engine) {
	engine.StopSample(pl.Tracks[pl.currentTrack].sample)
}

func (pl *PlayList) playNext(engine Engine) {
	pl.stop(engine)
	pl.currentTrack = (pl.currentTrack + 1) % len(pl.Tracks)
	pl.play(engine)
}

// Sample returns the engine sample of the track.
func (t *Track) Sample() audio.SampleID {
	return t.sample
}
