package sfx

import "math/rand"

// Sounds that are due more than this many time units ago are dropped
// instead of played late.
const maxLateness = 3

// Scheduler lets you register sounds that should play in the future.
//
// If you are making a simulation game, the time is likely virtual,
// and this lets you use any time notion.
// If you use real time, just pass the engine's GlobalTime or wall clock seconds.
//
// Scheduler can be used to schedule sounds to match timed animations,
// without needing to worry about executing it at exactly the right time.
//
// Remember to call Scheduler.Process() from your game loop.
type Scheduler struct {
	library *Library
	sounds  []queuedSound
}

type queuedSound struct {
	id         Id
	whenToPlay float64
}

func NewScheduler(library *Library) *Scheduler {
	return &Scheduler{
		library: library,
		sounds:  make([]queuedSound, 0, 100),
	}
}

func (fs *Scheduler) PlaySoundEffectAt(id Id, at float64) {
	fs.sounds = append(fs.sounds, queuedSound{
		whenToPlay: at,
		id:         id,
	})
}

// PlaySoundEffectAtRandomDelay schedules id somewhere in [at, at+maxDelay).
func (fs *Scheduler) PlaySoundEffectAtRandomDelay(id Id, at, maxDelay float64) {
	fs.PlaySoundEffectAt(id, at+rand.Float64()*maxDelay)
}

func (fs *Scheduler) Clear() {
	fs.sounds = fs.sounds[:0]
}

func (fs *Scheduler) Pending() int {
	return len(fs.sounds)
}

func (fs *Scheduler) Process(now float64) {
	i := 0
	for i < len(fs.sounds) {
		if fs.sounds[i].whenToPlay <= now {
			if fs.sounds[i].whenToPlay >= now-maxLateness {
				fs.library.Play(fs.sounds[i].id)
			}
			// clean array by moving the last element to the now free position
			fs.sounds[i] = fs.sounds[len(fs.sounds)-1]
			fs.sounds = fs.sounds[:len(fs.sounds)-1]
			continue
		}
		i++
	}
}
