package main

import (
	"log"
	"os"
	"time"

	"github.com/Lundis/go-gamesound/audio"
)

// render plays every sample once and records the output to path.
func render(e *audio.Engine, opts *audio.Options, ids []audio.SampleID, path string) error {
	duration := *flagDuration
	if duration == 0 {
		for _, id := range ids {
			duration = max(duration, e.Sample(id).Duration())
		}
	}
	if duration == 0 {
		duration = time.Second
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if *flagTone > 0 {
		e.SetUserSynthFunction(tone(*flagTone))
	}
	for _, id := range ids {
		e.PlaySample(id, false)
	}

	opts.Backend = audio.NewWavBackend(f, false)
	if err := e.InitialiseAudio(opts); err != nil {
		return err
	}
	frames := opts.BlockSamples / opts.ChannelCount
	blocks := uint64(duration.Seconds()*float64(opts.SampleRate))/uint64(frames) + 1
	for e.BlocksSubmitted() < blocks && e.Err() == nil {
		time.Sleep(time.Millisecond)
	}
	if err := e.DestroyAudio(); err != nil {
		return err
	}
	log.Printf("Recorded %.2fs to %s", e.GlobalTime(), path)
	return f.Close()
}
