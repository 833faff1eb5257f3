package audio

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

func init() {
	registerBackend("alsa", 0, func() Backend { return &ALSABackend{} })
}

const (
	sndPcmStreamPlayback      = 0
	sndPcmFormatS16LE         = 2
	sndPcmAccessRWInterleaved = 3
)

// libasound is loaded at run time so that building does not need cgo or
// the ALSA headers.
var alsa struct {
	once sync.Once
	err  error

	open      func(pcm *uintptr, name string, stream int32, mode int32) int32
	setParams func(pcm uintptr, format int32, access int32, channels uint32, rate uint32, softResample int32, latency uint32) int32
	writei    func(pcm uintptr, buffer unsafe.Pointer, frames uint) int
	recover   func(pcm uintptr, err int32, silent int32) int32
	drain     func(pcm uintptr) int32
	close     func(pcm uintptr) int32
	strerror  func(errnum int32) string
}

func loadALSA() error {
	alsa.once.Do(func() {
		lib, err := purego.Dlopen("libasound.so.2", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			alsa.err = fmt.Errorf("%w: %w", errDeviceNotFound, err)
			return
		}
		purego.RegisterLibFunc(&alsa.open, lib, "snd_pcm_open")
		purego.RegisterLibFunc(&alsa.setParams, lib, "snd_pcm_set_params")
		purego.RegisterLibFunc(&alsa.writei, lib, "snd_pcm_writei")
		purego.RegisterLibFunc(&alsa.recover, lib, "snd_pcm_recover")
		purego.RegisterLibFunc(&alsa.drain, lib, "snd_pcm_drain")
		purego.RegisterLibFunc(&alsa.close, lib, "snd_pcm_close")
		purego.RegisterLibFunc(&alsa.strerror, lib, "snd_strerror")
	})
	return alsa.err
}

// ALSABackend writes blocks to an ALSA PCM device from its own goroutine.
// snd_pcm_writei blocks while the device buffer is full, which is what
// paces the release of blocks.
type ALSABackend struct {
	// Device is the ALSA device name. Empty means "default".
	Device string

	pcm       uintptr
	channels  int
	q         *blockQueue
	wg        sync.WaitGroup
	underruns atomic.Uint64
	err       atomicError
}

func (b *ALSABackend) Open(sampleRate, channels, blockCount, blockSamples int) error {
	if err := loadALSA(); err != nil {
		return err
	}
	device := b.Device
	if device == "" {
		device = "default"
	}
	if rc := alsa.open(&b.pcm, device, sndPcmStreamPlayback, 0); rc < 0 {
		return fmt.Errorf("alsa: failed to open PCM device %q: %s", device, alsa.strerror(rc))
	}

	frames := blockSamples / channels
	latency := uint32(int64(blockCount*frames) * 1_000_000 / int64(sampleRate))
	rc := alsa.setParams(b.pcm, sndPcmFormatS16LE, sndPcmAccessRWInterleaved,
		uint32(channels), uint32(sampleRate), 1, latency)
	if rc < 0 {
		alsa.close(b.pcm)
		b.pcm = 0
		return fmt.Errorf("alsa: failed to set up PCM for %d Hz, %d channel(s): %s", sampleRate, channels, alsa.strerror(rc))
	}

	b.channels = channels
	b.q = newBlockQueue(blockCount)
	b.wg.Add(1)
	go b.loop()
	return nil
}

func (b *ALSABackend) loop() {
	defer b.wg.Done()
	for {
		s, ok := b.q.next()
		if !ok {
			return
		}
		if err := b.write(s.data); err != nil {
			b.err.TryStore(err)
		}
		b.q.release(s.index)
	}
}

func (b *ALSABackend) write(data []int16) error {
	frames := len(data) / b.channels
	for off := 0; off < frames; {
		n := alsa.writei(b.pcm, unsafe.Pointer(&data[off*b.channels]), uint(frames-off))
		if n < 0 {
			if n == -int(unix.EPIPE) || n == -int(unix.ESTRPIPE) {
				b.underruns.Add(1)
			}
			if rc := alsa.recover(b.pcm, int32(n), 1); rc < 0 {
				return fmt.Errorf("alsa: write failed: %s", alsa.strerror(rc))
			}
			continue
		}
		off += n
	}
	return nil
}

func (b *ALSABackend) AcquireFreeBlock(ctx context.Context) (int, error) {
	return b.q.acquire(ctx)
}

func (b *ALSABackend) Submit(block int, data []int16) error {
	if err := b.err.Load(); err != nil {
		return err
	}
	return b.q.submit(block, data)
}

func (b *ALSABackend) Underruns() uint64 {
	return b.underruns.Load()
}

func (b *ALSABackend) Close() error {
	b.q.close()
	b.wg.Wait()
	if b.pcm == 0 {
		return nil
	}
	alsa.drain(b.pcm)
	rc := alsa.close(b.pcm)
	b.pcm = 0
	if rc < 0 {
		return fmt.Errorf("alsa: close failed: %s", alsa.strerror(rc))
	}
	return nil
}
