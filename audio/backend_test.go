package audio_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/Lundis/go-gamesound/audio"
	"github.com/Lundis/go-gamesound/loaders/wav"
	"github.com/Lundis/go-gamesound/sample"
)

func TestNewBackend(t *testing.T) {
	if _, err := audio.NewBackend("nope"); !errors.Is(err, audio.ErrUnknownBackend) {
		t.Errorf("NewBackend(nope) error = %v, want ErrUnknownBackend", err)
	}

	b, err := audio.NewBackend("NULL")
	if err != nil {
		t.Fatalf("NewBackend(NULL) error = %v", err)
	}
	if _, ok := b.(*audio.NullBackend); !ok {
		t.Errorf("NewBackend(NULL) = %T, want *audio.NullBackend", b)
	}

	names := audio.Backends()
	for _, want := range []string{"default", "null", "oto"} {
		if !slices.Contains(names, want) {
			t.Errorf("Backends() = %v, missing %q", names, want)
		}
	}
}

func TestNullBackendSink(t *testing.T) {
	blocks := make(chan []int16, 64)
	b := &audio.NullBackend{Sink: func(block []int16) {
		select {
		case blocks <- slices.Clone(block):
		default:
		}
	}}

	e := audio.NewEngine(nil)
	s, _ := sample.FromFloat32([]float32{-0.5, -0.5, -0.5, -0.5}, 1, 44100)
	id, _ := e.AddSample(s)
	e.PlaySample(id, true)

	if err := e.InitialiseAudio(&audio.Options{BlockSamples: 32, Backend: b}); err != nil {
		t.Fatalf("InitialiseAudio() error = %v", err)
	}
	defer e.DestroyAudio()

	select {
	case block := <-blocks:
		for i, v := range block {
			if v != -16383 {
				t.Fatalf("block[%d] = %d, want -16383", i, v)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no block reached the sink")
	}
}

func TestWavBackendRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	e := audio.NewEngine(nil)
	s, _ := sample.FromFloat32([]float32{0.5}, 1, 8000)
	id, _ := e.AddSample(s)
	e.PlaySample(id, true)

	opts := &audio.Options{SampleRate: 8000, BlockCount: 4, BlockSamples: 256, Backend: audio.NewWavBackend(f, false)}
	if err := e.InitialiseAudio(opts); err != nil {
		t.Fatalf("InitialiseAudio() error = %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for e.BlocksSubmitted() < 8 {
		if time.Now().After(deadline) {
			t.Fatalf("BlocksSubmitted() = %d, want at least 8", e.BlocksSubmitted())
		}
		time.Sleep(time.Millisecond)
	}
	if err := e.DestroyAudio(); err != nil {
		t.Fatalf("DestroyAudio() error = %v", err)
	}
	submitted := e.BlocksSubmitted()
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := wav.LoadWavFile(path)
	if err != nil {
		t.Fatalf("LoadWavFile() error = %v", err)
	}
	if got.Header.SampleRate != 8000 || got.Channels != 1 {
		t.Errorf("recorded %d Hz, %d channel(s); want 8000 Hz mono", got.Header.SampleRate, got.Channels)
	}
	if want := int(submitted) * 256; got.Frames != want {
		t.Errorf("recorded %d frames, want %d", got.Frames, want)
	}
	if v := got.At(0, 0); v < 0.49 || v > 0.51 {
		t.Errorf("first value = %v, want about 0.5", v)
	}
}
