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

package audio

import "math"

// SynthFunc generates a value for channel at globalTime. It is called from
// the audio thread once per channel per frame and must not block.
type SynthFunc func(channel int, globalTime, timeStep float64) float64

// FilterFunc transforms the mixed signal of channel. It is called from
// the audio thread once per channel per frame and must not block.
type FilterFunc func(channel int, signal, timeStep float64) float64

// SetUserSynthFunction installs fn, or removes the synth if fn is nil.
func (e *Engine) SetUserSynthFunction(fn SynthFunc) {
	if fn == nil {
		e.synth.Store(nil)
		return
	}
	e.synth.Store(&fn)
}

// SetUserFilterFunction installs fn, or removes the filter if fn is nil.
func (e *Engine) SetUserFilterFunction(fn FilterFunc) {
	if fn == nil {
		e.filter.Store(nil)
		return
	}
	e.filter.Store(&fn)
}

// GetMixerOutput returns the output value of channel for one frame.
//
// Calling it advances the playing samples: channel 0 starts a frame and the
// last output channel ends it, moving every sample one frame forward. A
// frame must therefore be rendered by calling every channel once, in order.
// It is meant for host driven rendering while the audio thread is not
// running; while it is, GetMixerOutput competes with it for the same frames.
// Channels outside [0, ChannelCount) are silent and do not advance anything.
func (e *Engine) GetMixerOutput(channel int, globalTime, timeStep float64) float64 {
	channels := e.ChannelCount()
	if channel < 0 || channel >= channels {
		return 0
	}

	e.mixMu.Lock()
	defer e.mixMu.Unlock()

	if channel == 0 {
		e.snapshot()
	}
	out := e.mix(channel, channels, globalTime, timeStep)
	if channel == channels-1 {
		e.prune()
	}
	return out
}

// Render mixes len(dst)/ChannelCount frames of interleaved output into dst,
// advancing the global clock. It fails with ErrRunning while the audio thread runs.
func (e *Engine) Render(dst []float32) error {
	// Holding lifecycle keeps InitialiseAudio from starting the thread mid render.
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()
	if e.State() != StateInactive {
		return ErrRunning
	}
	e.mixMu.Lock()
	defer e.mixMu.Unlock()

	channels := e.ChannelCount()
	step := e.TimeStep()
	frames := len(dst) / channels
	e.snapshot()
	t := e.GlobalTime()
	for f := 0; f < frames; f++ {
		for c := 0; c < channels; c++ {
			dst[f*channels+c] = float32(e.mix(c, channels, t, step))
		}
		t += step
	}
	e.prune()
	e.advanceClock(float64(frames) * step)
	return nil
}

// fill mixes one block of interleaved frames. It is called by the audio thread.
func (e *Engine) fill(block []int16, channels int, globalTime, timeStep float64) {
	e.mixMu.Lock()
	defer e.mixMu.Unlock()

	e.snapshot()
	frames := len(block) / channels
	t := globalTime
	for f := 0; f < frames; f++ {
		for c := 0; c < channels; c++ {
			block[f*channels+c] = toInt16(e.mix(c, channels, t, timeStep))
		}
		t += timeStep
	}
	e.prune()
}

// mix sums the voices for channel, adds the synth, applies the filter and
// clamps the result. After the last channel of a frame the voices advance.
// Callers hold mixMu.
func (e *Engine) mix(channel, channels int, globalTime, timeStep float64) float64 {
	var signal float64
	for _, v := range e.voices {
		if v.live() {
			signal += float64(v.sample.At(v.pos, channel))
		}
	}
	if channel == channels-1 {
		for _, v := range e.voices {
			v.advance()
		}
	}

	if synth := e.synth.Load(); synth != nil {
		signal += (*synth)(channel, globalTime, timeStep)
	}
	if filter := e.filter.Load(); filter != nil {
		signal = (*filter)(channel, signal, timeStep)
	}
	return clamp(signal)
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	case math.IsNaN(v):
		return 0
	}
	return v
}

// toInt16 scales a value in [-1, 1] to 16-bit PCM, saturating outside that range.
func toInt16(v float64) int16 {
	return int16(clamp(v) * math.MaxInt16)
}
