// Copyright 2021 The Oto Authors
// Copyright 2025 Lundis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package audio plays and mixes samples in real time.
//
// An Engine owns a table of loaded samples, the set of currently playing
// instances, and a background goroutine that keeps the output device fed
// with blocks of mixed audio.
package audio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Lundis/go-gamesound/sample"
)

var (
	ErrInitialise         = errors.New("audio: initialisation failed")
	ErrAlreadyInitialised = errors.New("audio: engine is already initialised")
	ErrRunning            = errors.New("audio: audio thread is running")
)

// State is the lifecycle state of the audio thread.
type State int32

const (
	StateInactive State = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Options represents options for InitialiseAudio.
type Options struct {
	// SampleRate specifies the number of frames played during one second.
	// Usual numbers are 44100 or 48000. Samples are never resampled, so a
	// sample recorded at a different rate plays at the wrong pitch.
	SampleRate int

	// ChannelCount is 1 for mono output and 2 for stereo output.
	ChannelCount int

	// BlockCount is the number of blocks in the output ring.
	// More blocks mean fewer glitches and more latency.
	BlockCount int

	// BlockSamples is the number of interleaved values in one block.
	// It must be a multiple of ChannelCount.
	BlockSamples int

	// Backend is the output device. If nil, DefaultBackend is used.
	Backend Backend
}

// DefaultOptions returns 44100 Hz mono output with 8 blocks of 512 samples.
func DefaultOptions() *Options {
	return &Options{
		SampleRate:   44100,
		ChannelCount: 1,
		BlockCount:   8,
		BlockSamples: 512,
	}
}

func (o *Options) withDefaults() Options {
	d := DefaultOptions()
	if o == nil {
		return *d
	}
	out := *o
	if out.SampleRate == 0 {
		out.SampleRate = d.SampleRate
	}
	if out.ChannelCount == 0 {
		out.ChannelCount = d.ChannelCount
	}
	if out.BlockCount == 0 {
		out.BlockCount = d.BlockCount
	}
	if out.BlockSamples == 0 {
		out.BlockSamples = d.BlockSamples
	}
	return out
}

func (o *Options) validate() error {
	switch {
	case o.SampleRate <= 0:
		return fmt.Errorf("invalid sample rate %d", o.SampleRate)
	case o.ChannelCount != 1 && o.ChannelCount != 2:
		return fmt.Errorf("number of channels must be 1 or 2 but was %d", o.ChannelCount)
	case o.BlockCount < 1:
		return fmt.Errorf("invalid block count %d", o.BlockCount)
	case o.BlockSamples < o.ChannelCount || o.BlockSamples%o.ChannelCount != 0:
		return fmt.Errorf("block samples (%d) must be a positive multiple of the channel count (%d)", o.BlockSamples, o.ChannelCount)
	}
	return nil
}

// blockDuration is the playback time of one block.
func (o *Options) blockDuration() time.Duration {
	frames := o.BlockSamples / o.ChannelCount
	return time.Duration(frames) * time.Second / time.Duration(o.SampleRate)
}

// Engine loads samples, tracks their playback and drives the audio thread.
// All exported methods are safe for concurrent use.
type Engine struct {
	// lifecycle serializes InitialiseAudio and DestroyAudio.
	lifecycle sync.Mutex
	opts      Options
	state     atomic.Int32
	backend   Backend
	blocks    [][]int16
	cancel    context.CancelFunc
	done      chan struct{}

	samplesMu sync.RWMutex
	samples   []*sample.Sample

	// mu guards active, the only state shared with caller goroutines.
	mu     sync.Mutex
	active []*voice

	// mixMu guards voices and the positions of the voices in it.
	mixMu  sync.Mutex
	voices []*voice

	rate     atomic.Int32
	channels atomic.Int32
	clock    atomic.Uint64
	timeStep atomic.Uint64

	synth  atomic.Pointer[SynthFunc]
	filter atomic.Pointer[FilterFunc]

	glitches  atomic.Uint64
	submitted atomic.Uint64
	err       atomicError
}

// NewEngine creates an engine in the inactive state. opts (which may be nil)
// sets the output format used by GetMixerOutput and Render before the audio
// thread is started.
func NewEngine(opts *Options) *Engine {
	e := &Engine{opts: opts.withDefaults()}
	e.applyFormat()
	return e
}

func (e *Engine) applyFormat() {
	e.rate.Store(int32(e.opts.SampleRate))
	e.channels.Store(int32(e.opts.ChannelCount))
	e.timeStep.Store(math.Float64bits(1 / float64(e.opts.SampleRate)))
}

// InitialiseAudio opens the backend and starts the audio thread.
// If opts is nil, the options given to NewEngine are used.
func (e *Engine) InitialiseAudio(opts *Options) error {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	if !e.state.CompareAndSwap(int32(StateInactive), int32(StateStarting)) {
		return ErrAlreadyInitialised
	}

	o := e.opts
	if opts != nil {
		o = opts.withDefaults()
	}
	if err := o.validate(); err != nil {
		e.state.Store(int32(StateInactive))
		return fmt.Errorf("%w: %w", ErrInitialise, err)
	}
	if o.Backend == nil {
		o.Backend = DefaultBackend()
	}
	if err := o.Backend.Open(o.SampleRate, o.ChannelCount, o.BlockCount, o.BlockSamples); err != nil {
		e.state.Store(int32(StateInactive))
		return fmt.Errorf("%w: %w", ErrInitialise, err)
	}

	e.opts = o
	e.applyFormat()
	e.backend = o.Backend
	e.blocks = allocateBlocks(o.BlockCount, o.BlockSamples)
	e.glitches.Store(0)
	e.submitted.Store(0)
	e.err.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})
	ready := make(chan struct{})
	go e.run(ctx, ready)
	<-ready

	log.Printf("audio: initialised %d Hz, %d channel(s), %d blocks of %d samples",
		o.SampleRate, o.ChannelCount, o.BlockCount, o.BlockSamples)
	return nil
}

// allocateBlocks slices one backing array into count blocks.
func allocateBlocks(count, samples int) [][]int16 {
	memory := make([]int16, count*samples)
	blocks := make([][]int16, count)
	for i := range blocks {
		blocks[i] = memory[i*samples : (i+1)*samples : (i+1)*samples]
	}
	return blocks
}

// DestroyAudio stops the audio thread, waits for it to exit and closes the
// backend. Cleanup always runs to completion; the returned error joins the
// first runtime backend error and any error from closing the backend.
// Calling DestroyAudio on an inactive engine is a no-op.
func (e *Engine) DestroyAudio() error {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	if e.State() == StateInactive {
		return nil
	}
	e.state.Store(int32(StateStopping))
	e.cancel()
	<-e.done

	var closeErr error
	if err := e.backend.Close(); err != nil {
		closeErr = fmt.Errorf("audio: closing backend: %w", err)
		log.Println("audio:", closeErr)
	}
	e.backend = nil
	e.blocks = nil
	e.cancel = nil
	e.state.Store(int32(StateInactive))
	return errors.Join(e.err.Load(), closeErr)
}

func (e *Engine) State() State {
	return State(e.state.Load())
}

// GlobalTime is the playback time in seconds of the next block to be mixed.
func (e *Engine) GlobalTime() float64 {
	return math.Float64frombits(e.clock.Load())
}

// TimeStep is the duration of one frame in seconds.
func (e *Engine) TimeStep() float64 {
	return math.Float64frombits(e.timeStep.Load())
}

func (e *Engine) advanceClock(d float64) {
	e.clock.Store(math.Float64bits(e.GlobalTime() + d))
}

// SampleRate and ChannelCount describe the output format.
func (e *Engine) SampleRate() int {
	return int(e.rate.Load())
}

func (e *Engine) ChannelCount() int {
	return int(e.channels.Load())
}

// Glitches counts dropped or late blocks, including underruns reported by the backend.
func (e *Engine) Glitches() uint64 {
	n := e.glitches.Load()
	e.lifecycle.Lock()
	if r, ok := e.backend.(UnderrunReporter); ok {
		n += r.Underruns()
	}
	e.lifecycle.Unlock()
	return n
}

// BlocksSubmitted counts blocks handed to the backend since InitialiseAudio.
func (e *Engine) BlocksSubmitted() uint64 {
	return e.submitted.Load()
}

// Err returns the first backend error seen by the audio thread, if any.
func (e *Engine) Err() error {
	return e.err.Load()
}
