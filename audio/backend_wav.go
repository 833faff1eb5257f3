package audio

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavBackend records the output to a 16-bit PCM WAV file instead of
// playing it. Unless Paced, blocks are written as fast as they are mixed.
type WavBackend struct {
	w     io.WriteSeeker
	Paced bool

	enc  *wav.Encoder
	buf  *goaudio.IntBuffer
	q    *blockQueue
	wg   sync.WaitGroup
	err  atomicError
	wait time.Duration
}

// NewWavBackend creates a backend that writes to w. w is not closed by the backend.
func NewWavBackend(w io.WriteSeeker, paced bool) *WavBackend {
	return &WavBackend{w: w, Paced: paced}
}

func (b *WavBackend) Open(sampleRate, channels, blockCount, blockSamples int) error {
	if b.w == nil {
		return errors.New("audio: wav backend has no writer")
	}
	b.enc = wav.NewEncoder(b.w, sampleRate, 16, channels, 1)
	b.buf = &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, blockSamples),
		SourceBitDepth: 16,
	}
	b.q = newBlockQueue(blockCount)
	frames := blockSamples / channels
	b.wait = time.Duration(frames) * time.Second / time.Duration(sampleRate)
	b.wg.Add(1)
	go b.loop()
	return nil
}

func (b *WavBackend) loop() {
	defer b.wg.Done()
	for {
		s, ok := b.q.next()
		if !ok {
			return
		}
		b.buf.Data = b.buf.Data[:len(s.data)]
		for i, v := range s.data {
			b.buf.Data[i] = int(v)
		}
		if err := b.enc.Write(b.buf); err != nil {
			b.err.TryStore(err)
		}
		if b.Paced {
			time.Sleep(b.wait)
		}
		b.q.release(s.index)
	}
}

func (b *WavBackend) AcquireFreeBlock(ctx context.Context) (int, error) {
	return b.q.acquire(ctx)
}

func (b *WavBackend) Submit(block int, data []int16) error {
	if err := b.err.Load(); err != nil {
		return err
	}
	return b.q.submit(block, data)
}

// Close flushes the pending blocks and finishes the WAV header.
func (b *WavBackend) Close() error {
	b.drain()
	b.q.close()
	b.wg.Wait()
	if err := b.err.Load(); err != nil {
		return err
	}
	return b.enc.Close()
}

// drain waits until the writer goroutine has consumed every submitted block.
func (b *WavBackend) drain() {
	for len(b.q.pending) > 0 {
		time.Sleep(time.Millisecond)
	}
}
