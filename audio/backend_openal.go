//go:build linux || darwin || freebsd

package audio

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"
)

func init() {
	registerBackend("openal", 50, func() Backend { return &OpenALBackend{} })
}

const (
	alFormatMono16     = 0x1101
	alFormatStereo16   = 0x1103
	alSourceState      = 0x1010
	alPlaying          = 0x1012
	alBuffersProcessed = 0x1016
	alNoError          = 0
	openALPollInterval = time.Millisecond
)

func openALLibrary() string {
	switch runtime.GOOS {
	case "darwin":
		return "/System/Library/Frameworks/OpenAL.framework/OpenAL"
	default:
		return "libopenal.so.1"
	}
}

var al struct {
	once sync.Once
	err  error

	openDevice         func(name *byte) uintptr
	closeDevice        func(device uintptr) bool
	createContext      func(device uintptr, attrs *int32) uintptr
	makeContextCurrent func(ctx uintptr) bool
	destroyContext     func(ctx uintptr)

	getError             func() int32
	genSources           func(n int32, sources *uint32)
	deleteSources        func(n int32, sources *uint32)
	genBuffers           func(n int32, buffers *uint32)
	deleteBuffers        func(n int32, buffers *uint32)
	bufferData           func(buffer uint32, format int32, data unsafe.Pointer, size int32, freq int32)
	sourceQueueBuffers   func(source uint32, n int32, buffers *uint32)
	sourceUnqueueBuffers func(source uint32, n int32, buffers *uint32)
	getSourcei           func(source uint32, param int32, value *int32)
	sourcePlay           func(source uint32)
	sourceStop           func(source uint32)
}

func loadOpenAL() error {
	al.once.Do(func() {
		lib, err := purego.Dlopen(openALLibrary(), purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			al.err = fmt.Errorf("%w: %w", errDeviceNotFound, err)
			return
		}
		purego.RegisterLibFunc(&al.openDevice, lib, "alcOpenDevice")
		purego.RegisterLibFunc(&al.closeDevice, lib, "alcCloseDevice")
		purego.RegisterLibFunc(&al.createContext, lib, "alcCreateContext")
		purego.RegisterLibFunc(&al.makeContextCurrent, lib, "alcMakeContextCurrent")
		purego.RegisterLibFunc(&al.destroyContext, lib, "alcDestroyContext")
		purego.RegisterLibFunc(&al.getError, lib, "alGetError")
		purego.RegisterLibFunc(&al.genSources, lib, "alGenSources")
		purego.RegisterLibFunc(&al.deleteSources, lib, "alDeleteSources")
		purego.RegisterLibFunc(&al.genBuffers, lib, "alGenBuffers")
		purego.RegisterLibFunc(&al.deleteBuffers, lib, "alDeleteBuffers")
		purego.RegisterLibFunc(&al.bufferData, lib, "alBufferData")
		purego.RegisterLibFunc(&al.sourceQueueBuffers, lib, "alSourceQueueBuffers")
		purego.RegisterLibFunc(&al.sourceUnqueueBuffers, lib, "alSourceUnqueueBuffers")
		purego.RegisterLibFunc(&al.getSourcei, lib, "alGetSourcei")
		purego.RegisterLibFunc(&al.sourcePlay, lib, "alSourcePlay")
		purego.RegisterLibFunc(&al.sourceStop, lib, "alSourceStop")
	})
	return al.err
}

// OpenALBackend streams blocks through one OpenAL source with a queue of
// buffers, one buffer per block. Played buffers are found by polling.
type OpenALBackend struct {
	device  uintptr
	context uintptr
	source  uint32
	buffers []uint32
	index   map[uint32]int
	format  int32
	rate    int32

	// Only used from the audio thread.
	free    []int
	started bool

	closed    atomic.Bool
	underruns atomic.Uint64
}

func (b *OpenALBackend) Open(sampleRate, channels, blockCount, blockSamples int) error {
	if err := loadOpenAL(); err != nil {
		return err
	}
	b.device = al.openDevice(nil)
	if b.device == 0 {
		return fmt.Errorf("%w: openal: alcOpenDevice returned no device", errDeviceNotFound)
	}
	b.context = al.createContext(b.device, nil)
	if b.context == 0 || !al.makeContextCurrent(b.context) {
		al.closeDevice(b.device)
		b.device = 0
		return errors.New("openal: failed to create a context")
	}

	al.genSources(1, &b.source)
	b.buffers = make([]uint32, blockCount)
	al.genBuffers(int32(blockCount), &b.buffers[0])
	if code := al.getError(); code != alNoError {
		b.release()
		return fmt.Errorf("openal: failed to create buffers: error 0x%x", code)
	}

	b.index = make(map[uint32]int, blockCount)
	b.free = make([]int, 0, blockCount)
	for i, buf := range b.buffers {
		b.index[buf] = i
		b.free = append(b.free, i)
	}
	b.format = alFormatMono16
	if channels == 2 {
		b.format = alFormatStereo16
	}
	b.rate = int32(sampleRate)
	return nil
}

func (b *OpenALBackend) AcquireFreeBlock(ctx context.Context) (int, error) {
	for {
		if b.closed.Load() {
			return -1, ErrBackendClosed
		}
		if len(b.free) == 0 {
			b.reclaim()
		}
		if len(b.free) > 0 {
			i := b.free[0]
			b.free = b.free[1:]
			return i, nil
		}
		if err := sleepOrDone(ctx, openALPollInterval); err != nil {
			return -1, err
		}
	}
}

// reclaim unqueues the buffers OpenAL has finished playing.
func (b *OpenALBackend) reclaim() {
	var processed int32
	al.getSourcei(b.source, alBuffersProcessed, &processed)
	for ; processed > 0; processed-- {
		var buf uint32
		al.sourceUnqueueBuffers(b.source, 1, &buf)
		if i, ok := b.index[buf]; ok {
			b.free = append(b.free, i)
		}
	}
}

func (b *OpenALBackend) Submit(block int, data []int16) error {
	if b.closed.Load() {
		return ErrBackendClosed
	}
	buf := b.buffers[block]
	al.bufferData(buf, b.format, unsafe.Pointer(&data[0]), int32(len(data)*2), b.rate)
	al.sourceQueueBuffers(b.source, 1, &buf)
	if code := al.getError(); code != alNoError {
		b.free = append(b.free, block)
		return fmt.Errorf("openal: failed to queue block %d: error 0x%x", block, code)
	}

	var state int32
	al.getSourcei(b.source, alSourceState, &state)
	if state != alPlaying {
		if b.started {
			b.underruns.Add(1)
		}
		al.sourcePlay(b.source)
		b.started = true
	}
	return nil
}

func (b *OpenALBackend) Underruns() uint64 {
	return b.underruns.Load()
}

func (b *OpenALBackend) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	b.release()
	return nil
}

func (b *OpenALBackend) release() {
	if b.source != 0 {
		al.sourceStop(b.source)
		al.deleteSources(1, &b.source)
		b.source = 0
	}
	if len(b.buffers) > 0 {
		al.deleteBuffers(int32(len(b.buffers)), &b.buffers[0])
		b.buffers = nil
	}
	if b.context != 0 {
		al.makeContextCurrent(0)
		al.destroyContext(b.context)
		b.context = 0
	}
	if b.device != 0 {
		al.closeDevice(b.device)
		b.device = 0
	}
}
