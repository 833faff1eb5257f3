package audio

import (
	"context"
	"log"
)

// run is the audio thread. It waits for a free block, fills it, hands it to
// the backend and advances the clock until ctx is cancelled.
func (e *Engine) run(ctx context.Context, ready chan<- struct{}) {
	defer close(e.done)

	backend := e.backend
	blocks := e.blocks
	channels := e.opts.ChannelCount
	backoff := e.opts.blockDuration()
	step := e.TimeStep()

	e.state.Store(int32(StateRunning))
	close(ready)

	for ctx.Err() == nil {
		idx, err := backend.AcquireFreeBlock(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			e.glitch(err)
			if sleepOrDone(ctx, backoff) != nil {
				return
			}
			continue
		}

		block := blocks[idx]
		e.fill(block, channels, e.GlobalTime(), step)

		// Failed submits drop the block; they are never retried.
		if err := backend.Submit(idx, block); err != nil {
			if ctx.Err() != nil {
				return
			}
			e.glitch(err)
		} else {
			e.submitted.Add(1)
		}
		e.advanceClock(float64(len(block)/channels) * step)
	}
}

func (e *Engine) glitch(err error) {
	e.glitches.Add(1)
	if e.err.TryStore(err) {
		log.Println("audio: backend error:", err)
	}
}
