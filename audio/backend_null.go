package audio

import (
	"context"
	"sync"
	"time"
)

// NullBackend discards audio. It is used when no device is available, for
// headless builds and in tests.
type NullBackend struct {
	// Paced makes the backend hold each block for its playback time, like a
	// real device would. Unpaced, blocks are released as soon as they arrive.
	Paced bool

	// Sink, if set, is called from the backend goroutine with every
	// submitted block. It must not keep a reference to block.
	Sink func(block []int16)

	q             *blockQueue
	blockDuration time.Duration
	wg            sync.WaitGroup
}

func (b *NullBackend) Open(sampleRate, channels, blockCount, blockSamples int) error {
	b.q = newBlockQueue(blockCount)
	frames := blockSamples / channels
	b.blockDuration = time.Duration(frames) * time.Second / time.Duration(sampleRate)
	b.wg.Add(1)
	go b.loop()
	return nil
}

func (b *NullBackend) loop() {
	defer b.wg.Done()
	for {
		s, ok := b.q.next()
		if !ok {
			return
		}
		if b.Sink != nil {
			b.Sink(s.data)
		}
		if b.Paced {
			time.Sleep(b.blockDuration)
		}
		b.q.release(s.index)
	}
}

func (b *NullBackend) AcquireFreeBlock(ctx context.Context) (int, error) {
	return b.q.acquire(ctx)
}

func (b *NullBackend) Submit(block int, data []int16) error {
	return b.q.submit(block, data)
}

func (b *NullBackend) Close() error {
	b.q.close()
	b.wg.Wait()
	return nil
}
