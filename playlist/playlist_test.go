package playlist_test

import (
	"testing"

	"github.com/Lundis/go-gamesound/audio"
	"github.com/Lundis/go-gamesound/internal/wavtest"
	"github.com/Lundis/go-gamesound/playlist"
	"golang.org/x/tools/godoc/vfs/mapfs"
)

const registry = `[
	{"Id": "menu", "Tracks": [{"Path": "theme.wav", "Name": "Theme"}]},
	{"Id": "game", "Tracks": [
		{"Path": "a.wav", "Name": "A", "Author": "Someone"},
		{"Path": "b.wav", "Name": "B"}
	]},
	{"Id": "broken", "Tracks": [{"Path": "a.wav"}, {"Path": "missing.wav"}]},
	{"Id": "empty", "Tracks": []}
]`

func load(t *testing.T) (*playlist.Player, *audio.Engine) {
	t.Helper()
	track := string(wavtest.Encode(8000, 1, wavtest.Constant(100, 1000)))
	fs := mapfs.New(map[string]string{
		"playlist.json": registry,
		"theme.wav":     track,
		"a.wav":         track,
		"b.wav":         track,
	})
	e := audio.NewEngine(&audio.Options{SampleRate: 8000})
	p, err := playlist.Load(e, fs)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return p, e
}

func render(t *testing.T, e *audio.Engine, frames int) {
	t.Helper()
	if err := e.Render(make([]float32, frames)); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
}

func TestSingleTrackLoops(t *testing.T) {
	p, e := load(t)
	if !p.Play("menu") {
		t.Fatalf("Play(menu) = false")
	}
	_, track := p.Current()
	render(t, e, 450)
	p.Update()
	if !e.IsPlaying(track.Sample()) {
		t.Errorf("single track stopped instead of looping")
	}
}

func TestTracksAdvance(t *testing.T) {
	p, e := load(t)
	p.Play("game")

	_, first := p.Current()
	if first.Name != "A" {
		t.Fatalf("first track = %q, want A", first.Name)
	}
	render(t, e, 100)
	p.Update()

	_, second := p.Current()
	if second.Name != "B" || !e.IsPlaying(second.Sample()) {
		t.Fatalf("after A ended: track %q, playing %v", second.Name, e.IsPlaying(second.Sample()))
	}

	render(t, e, 50)
	p.Update()
	if _, cur := p.Current(); cur.Name != "B" {
		t.Errorf("advanced to %q before B ended", cur.Name)
	}

	render(t, e, 50)
	p.Update()
	if _, cur := p.Current(); cur.Name != "A" {
		t.Errorf("after B ended: track %q, want A", cur.Name)
	}
}

func TestStopAndResume(t *testing.T) {
	p, e := load(t)
	p.Play("game")
	_, track := p.Current()

	p.Stop()
	if e.IsPlaying(track.Sample()) {
		t.Fatalf("track still playing after Stop")
	}
	render(t, e, 200)
	p.Update()
	if _, cur := p.Current(); cur != track {
		t.Errorf("stopped playlist advanced to %q", cur.Name)
	}

	p.Play("game")
	if !e.IsPlaying(track.Sample()) {
		t.Errorf("Play did not resume the stopped track")
	}
}

func TestSwitchPlaylist(t *testing.T) {
	p, e := load(t)
	p.Play("game")
	_, game := p.Current()

	if !p.Play("menu") {
		t.Fatalf("Play(menu) = false")
	}
	_, menu := p.Current()
	if e.IsPlaying(game.Sample()) {
		t.Errorf("previous playlist still playing")
	}
	if !e.IsPlaying(menu.Sample()) {
		t.Errorf("new playlist not playing")
	}
}

func TestNext(t *testing.T) {
	p, _ := load(t)
	p.Play("game")
	p.Next()
	if _, cur := p.Current(); cur.Name != "B" {
		t.Errorf("Next() moved to %q, want B", cur.Name)
	}
}

func TestBrokenPlaylistsAreSkipped(t *testing.T) {
	p, _ := load(t)
	for _, id := range []playlist.Id{"broken", "empty", "nope"} {
		if p.Play(id) {
			t.Errorf("Play(%s) = true", id)
		}
	}
	if pl, _ := p.Current(); pl != nil {
		t.Errorf("Current() = %v, want nothing", pl.Id)
	}
}

func TestLoadWithoutRegistry(t *testing.T) {
	if _, err := playlist.Load(audio.NewEngine(nil), mapfs.New(map[string]string{})); err == nil {
		t.Errorf("Load() without playlist.json should fail")
	}
}
