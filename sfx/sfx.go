package sfx

import (
	"log"
	"time"

	"github.com/Lundis/go-gamesound/audio"
)

type Sfx struct {
	Id           Id
	ThrottlingMs int
	Variations   []*SfxVariant
	DebugMode    bool
	lastPlayed   time.Time
}

type SfxVariant struct {
	Path         string
	Probability  float64
	ThrottlingMs int
	sample       audio.SampleID
	lastPlayed   time.Time
}

func throttled(last time.Time, ms int) bool {
	return time.Since(last) <= time.Duration(ms)*time.Millisecond
}

// play picks a variation that is not throttled, weighted by probability.
func (e *Sfx) play(engine Engine, random func() float64) bool {
	if len(e.Variations) == 0 || throttled(e.lastPlayed, e.ThrottlingMs) {
		return false
	}

	unThrottled := make([]*SfxVariant, 0, len(e.Variations))
	probabilitySum := 0.0
	for _, v := range e.Variations {
		if v.sample != audio.InvalidSample && !throttled(v.lastPlayed, v.ThrottlingMs) {
			unThrottled = append(unThrottled, v)
			probabilitySum += v.Probability
		}
	}
	if len(unThrottled) == 0 {
		return false
	}

	r := random() * probabilitySum
	for _, v := range unThrottled {
		if r <= v.Probability+0.001 {
			v.play(engine)
			e.lastPlayed = v.lastPlayed
			if e.DebugMode {
				log.Printf("Playing sound effect %s with variation %s", e.Id, v.Path)
			}
			return true
		}
		r -= v.Probability
	}
	return false
}

func (v *SfxVariant) play(engine Engine) {
	engine.PlaySample(v.sample, false)
	v.lastPlayed = time.Now()
}
