package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

func init() {
	registerBackend("oto", 100, func() Backend { return &OtoBackend{} })
}

// oto supports only one context per process, so it is shared between
// backends and kept alive after Close.
var otoContext struct {
	m          sync.Mutex
	ctx        *oto.Context
	sampleRate int
	channels   int
}

func sharedOtoContext(sampleRate, channels int, bufferSize time.Duration) (*oto.Context, error) {
	otoContext.m.Lock()
	defer otoContext.m.Unlock()

	if otoContext.ctx != nil {
		if otoContext.sampleRate != sampleRate || otoContext.channels != channels {
			return nil, fmt.Errorf("oto: context already created for %d Hz, %d channel(s)",
				otoContext.sampleRate, otoContext.channels)
		}
		if err := otoContext.ctx.Resume(); err != nil {
			return nil, err
		}
		return otoContext.ctx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errDeviceNotFound, err)
	}
	<-ready
	otoContext.ctx = ctx
	otoContext.sampleRate = sampleRate
	otoContext.channels = channels
	return ctx, nil
}

// OtoBackend plays through ebitengine/oto, which works on every platform oto
// supports. oto pulls data as the device needs it; a block is free again
// once oto has copied it.
type OtoBackend struct {
	q      *blockQueue
	player *oto.Player

	// Only used from oto's reading goroutine.
	cur     submission
	off     int
	have    bool
	started bool
	starved bool

	underruns atomic.Uint64
}

func (b *OtoBackend) Open(sampleRate, channels, blockCount, blockSamples int) error {
	frames := blockSamples / channels
	blockDuration := time.Duration(frames) * time.Second / time.Duration(sampleRate)
	ctx, err := sharedOtoContext(sampleRate, channels, blockDuration)
	if err != nil {
		return err
	}
	b.q = newBlockQueue(blockCount)
	b.player = ctx.NewPlayer(b)
	b.player.SetBufferSize(blockSamples * 2)
	b.player.Play()
	return nil
}

// Read implements io.Reader for oto. It never blocks: when nothing has been
// submitted it returns what it has, possibly nothing, and oto plays silence.
func (b *OtoBackend) Read(p []byte) (int, error) {
	n := 0
	for len(p)-n >= 2 {
		if !b.have {
			s, ok := b.q.tryNext()
			if !ok {
				break
			}
			b.cur, b.off, b.have = s, 0, true
		}
		for b.off < len(b.cur.data) && len(p)-n >= 2 {
			binary.LittleEndian.PutUint16(p[n:], uint16(b.cur.data[b.off]))
			n += 2
			b.off++
		}
		if b.off == len(b.cur.data) {
			b.q.release(b.cur.index)
			b.have = false
		}
	}
	// oto retries an empty read about once a millisecond; one gap is one underrun.
	if n == 0 && b.started && !b.starved {
		b.underruns.Add(1)
	}
	b.started = b.started || n > 0
	b.starved = n == 0
	return n, nil
}

func (b *OtoBackend) Underruns() uint64 {
	return b.underruns.Load()
}

func (b *OtoBackend) AcquireFreeBlock(ctx context.Context) (int, error) {
	return b.q.acquire(ctx)
}

func (b *OtoBackend) Submit(block int, data []int16) error {
	return b.q.submit(block, data)
}

func (b *OtoBackend) Close() error {
	b.q.close()
	err := b.player.Close()
	otoContext.m.Lock()
	defer otoContext.m.Unlock()
	if suspendErr := otoContext.ctx.Suspend(); err == nil {
		err = suspendErr
	}
	return err
}
