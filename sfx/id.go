package sfx

import "log"

// Id is used to identify a specific sound effect
// Use Library.Play to play the sounds after loading them
type Id string

// Play plays one variation of the sound effect, unless it is throttled.
// It reports whether anything was played.
func (l *Library) Play(id Id) bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	if effect, ok := l.effects[id]; ok {
		return effect.play(l.engine, l.rand)
	}
	log.Printf("sfx: %s not loaded", id)
	return false
}

// Has reports whether id was loaded.
func (l *Library) Has(id Id) bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	_, ok := l.effects[id]
	return ok
}
