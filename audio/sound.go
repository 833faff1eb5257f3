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

import (
	"errors"
	"sync/atomic"

	"github.com/Lundis/go-gamesound/loaders"
	"github.com/Lundis/go-gamesound/sample"
	"golang.org/x/tools/godoc/vfs"
)

// SampleID is a handle to a loaded sample. Handles are never reused.
type SampleID int

// InvalidSample is returned when a sample could not be loaded.
const InvalidSample SampleID = -1

var errInvalidSample = errors.New("audio: sample is not valid")

// voice is one playing instance of a sample.
type voice struct {
	id     SampleID
	sample *sample.Sample
	loop   bool

	// pos is only touched while holding Engine.mixMu.
	pos int

	finished atomic.Bool
	stop     atomic.Bool
}

func (v *voice) live() bool {
	return !v.finished.Load() && !v.stop.Load()
}

// advance moves the voice one frame forward, wrapping or finishing at the end.
func (v *voice) advance() {
	if !v.live() {
		return
	}
	v.pos++
	if v.pos >= v.sample.Frames {
		if v.loop {
			v.pos = 0
		} else {
			v.finished.Store(true)
		}
	}
}

// LoadAudioSample loads a sample from disk. The decoder is picked by the file
// extension. On failure InvalidSample is returned together with the error.
func (e *Engine) LoadAudioSample(path string) (SampleID, error) {
	s, err := loaders.LoadFile(path)
	if err != nil {
		return InvalidSample, err
	}
	return e.AddSample(s)
}

// LoadAudioSampleFS loads a sample from a virtual filesystem, e.g. a resource pack.
func (e *Engine) LoadAudioSampleFS(fs vfs.Opener, path string) (SampleID, error) {
	s, err := loaders.LoadFS(fs, path)
	if err != nil {
		return InvalidSample, err
	}
	return e.AddSample(s)
}

// AddSample registers an already decoded sample.
func (e *Engine) AddSample(s *sample.Sample) (SampleID, error) {
	if s == nil || !s.Valid || s.Frames == 0 {
		return InvalidSample, errInvalidSample
	}
	e.samplesMu.Lock()
	defer e.samplesMu.Unlock()
	e.samples = append(e.samples, s)
	return SampleID(len(e.samples) - 1), nil
}

// Sample returns the sample registered under id, or nil.
func (e *Engine) Sample(id SampleID) *sample.Sample {
	e.samplesMu.RLock()
	defer e.samplesMu.RUnlock()
	if id < 0 || int(id) >= len(e.samples) {
		return nil
	}
	return e.samples[id]
}

// PlaySample starts a new instance of the sample from its beginning.
// Unknown ids are ignored.
func (e *Engine) PlaySample(id SampleID, loop bool) {
	s := e.Sample(id)
	if s == nil {
		return
	}
	v := &voice{id: id, sample: s, loop: loop}
	e.mu.Lock()
	e.active = append(e.active, v)
	e.mu.Unlock()
}

// StopSample stops every playing instance of the sample.
// Unknown ids are ignored.
func (e *Engine) StopSample(id SampleID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, v := range e.active {
		if v.id == id {
			v.stop.Store(true)
		}
	}
}

// StopAll stops everything that is playing.
func (e *Engine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, v := range e.active {
		v.stop.Store(true)
		e.active[i] = nil
	}
	e.active = e.active[:0]
}

// ActiveCount returns the number of instances of id that are still in the active set.
func (e *Engine) ActiveCount(id SampleID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, v := range e.active {
		if v.id == id {
			n++
		}
	}
	return n
}

// IsPlaying reports whether any instance of id is still audible.
func (e *Engine) IsPlaying(id SampleID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, v := range e.active {
		if v.id == id && v.live() {
			return true
		}
	}
	return false
}

// snapshot copies the active set into the mixing set. Callers hold mixMu.
func (e *Engine) snapshot() {
	for i := range e.voices {
		e.voices[i] = nil
	}
	e.voices = e.voices[:0]
	e.mu.Lock()
	e.voices = append(e.voices, e.active...)
	e.mu.Unlock()
}

// prune drops finished and stopped voices from the active set.
func (e *Engine) prune() {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.active[:0]
	for _, v := range e.active {
		if v.live() {
			kept = append(kept, v)
		}
	}
	for i := len(kept); i < len(e.active); i++ {
		e.active[i] = nil
	}
	e.active = kept
}
