// Command sampleplay loads samples and plays them from the keyboard, or
// records them to a WAV file.
//
//	sampleplay [flags] sample.wav [more.ogg ...]
//
// Keys 1-9 play the samples, l toggles looping, t toggles a test tone,
// s stops everything and Esc quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/Lundis/go-gamesound/audio"
)

var (
	flagBackend  = flag.String("backend", "default", "output backend: "+strings.Join(audio.Backends(), ", "))
	flagHz       = flag.Int("hz", 44100, "output hz")
	flagChannels = flag.Int("channels", 2, "output channels, 1 or 2")
	flagBlocks   = flag.Int("blocks", 8, "number of blocks in the output ring")
	flagBlockLen = flag.Int("blocksamples", 1024, "interleaved samples per block")
	flagTone     = flag.Float64("tone", 0, "frequency of a test tone mixed into the output, 0 for none")
	flagRender   = flag.String("render", "", "record to this WAV file instead of playing interactively")
	flagDuration = flag.Duration("duration", 0, "length of the recording, defaults to the longest sample")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("sampleplay: ")
	flag.Parse()

	if flag.NArg() == 0 && *flagTone == 0 {
		log.Fatal("Missing sample filename")
	}

	opts := audio.DefaultOptions()
	opts.SampleRate = *flagHz
	opts.ChannelCount = *flagChannels
	opts.BlockCount = *flagBlocks
	opts.BlockSamples = *flagBlockLen

	e := audio.NewEngine(opts)
	var ids []audio.SampleID
	for _, path := range flag.Args() {
		id, err := e.LoadAudioSample(path)
		if err != nil {
			log.Fatal(err)
		}
		ids = append(ids, id)
	}

	if *flagRender != "" {
		if err := render(e, opts, ids, *flagRender); err != nil {
			log.Fatal(err)
		}
		return
	}

	backend, err := audio.NewBackend(*flagBackend)
	if err != nil {
		log.Fatal(err)
	}
	opts.Backend = backend
	if err := e.InitialiseAudio(opts); err != nil {
		log.Fatal(err)
	}
	interactive(e, ids)
	if err := e.DestroyAudio(); err != nil {
		log.Fatal(err)
	}
}

func tone(freq float64) audio.SynthFunc {
	return func(channel int, globalTime, timeStep float64) float64 {
		return 0.2 * math.Sin(2*math.Pi*freq*globalTime)
	}
}

func describe(e *audio.Engine, ids []audio.SampleID) string {
	var b strings.Builder
	for i, id := range ids {
		s := e.Sample(id)
		fmt.Fprintf(&b, "%s %s %s\n", cyan("%d", i+1), white("%s", flag.Arg(i)),
			yellow("%dch %dHz %.2fs", s.Channels, s.Header.SampleRate, s.Duration().Seconds()))
	}
	return b.String()
}
