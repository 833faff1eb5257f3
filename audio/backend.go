package audio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	errDeviceNotFound = errors.New("audio: device not found")
	ErrBackendClosed  = errors.New("audio: backend is closed")
	ErrUnknownBackend = errors.New("audio: unknown backend")
)

// Backend is an audio output device that consumes a ring of blocks.
//
// The audio thread calls AcquireFreeBlock, fills the returned block and hands
// it back with Submit. A block index is not returned by AcquireFreeBlock again
// until the device has finished playing it.
type Backend interface {
	// Open prepares the device for blockCount blocks of blockSamples
	// interleaved 16-bit values.
	Open(sampleRate, channels, blockCount, blockSamples int) error

	// AcquireFreeBlock blocks until a block is free and returns its index.
	// It returns early with an error when ctx is done or the backend is closed.
	AcquireFreeBlock(ctx context.Context) (int, error)

	// Submit queues a filled block for playback. data must stay untouched
	// until its index is returned by AcquireFreeBlock again.
	Submit(block int, data []int16) error

	Close() error
}

// UnderrunReporter is implemented by backends that can tell when the device ran dry.
type UnderrunReporter interface {
	Underruns() uint64
}

type submission struct {
	index int
	data  []int16
}

// blockQueue hands block indices between the audio thread and a device.
// Free indices come back in the order they were released, so blocks cycle
// through the ring in order.
type blockQueue struct {
	free    chan int
	pending chan submission
	closed  chan struct{}
	once    sync.Once
}

func newBlockQueue(count int) *blockQueue {
	q := &blockQueue{
		free:    make(chan int, count),
		pending: make(chan submission, count),
		closed:  make(chan struct{}),
	}
	for i := 0; i < count; i++ {
		q.free <- i
	}
	return q
}

func (q *blockQueue) acquire(ctx context.Context) (int, error) {
	select {
	case i := <-q.free:
		return i, nil
	case <-ctx.Done():
		return -1, ctx.Err()
	case <-q.closed:
		return -1, ErrBackendClosed
	}
}

func (q *blockQueue) submit(index int, data []int16) error {
	select {
	case <-q.closed:
		return ErrBackendClosed
	default:
	}
	select {
	case q.pending <- submission{index, data}:
		return nil
	case <-q.closed:
		return ErrBackendClosed
	}
}

// next blocks until a submitted block is available to the device.
func (q *blockQueue) next() (submission, bool) {
	select {
	case s := <-q.pending:
		return s, true
	case <-q.closed:
		return submission{}, false
	}
}

// tryNext is next without waiting.
func (q *blockQueue) tryNext() (submission, bool) {
	select {
	case s := <-q.pending:
		return s, true
	default:
		return submission{}, false
	}
}

// release marks a block as played.
func (q *blockQueue) release(index int) {
	select {
	case q.free <- index:
	default:
	}
}

func (q *blockQueue) close() {
	q.once.Do(func() { close(q.closed) })
}

// sleepOrDone waits for d unless ctx is done first.
func sleepOrDone(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type backendFactory struct {
	name     string
	priority int
	new      func() Backend
}

var (
	backendsMu sync.Mutex
	backends   []backendFactory
)

// registerBackend makes a backend available to NewBackend. Backends with a
// lower priority are tried first by DefaultBackend; a negative priority
// keeps a backend out of the defaults.
func registerBackend(name string, priority int, fn func() Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends = append(backends, backendFactory{name, priority, fn})
	sort.SliceStable(backends, func(i, j int) bool { return backends[i].priority < backends[j].priority })
}

func init() {
	registerBackend("null", -1, func() Backend { return &NullBackend{Paced: true} })
}

// Backends lists the names accepted by NewBackend.
func Backends() []string {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	names := make([]string, 0, len(backends)+1)
	names = append(names, "default")
	for _, b := range backends {
		names = append(names, b.name)
	}
	slices.Sort(names)
	return names
}

// NewBackend creates a backend by name. "" and "default" return DefaultBackend.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(name)
	if name == "" || name == "default" {
		return DefaultBackend(), nil
	}
	backendsMu.Lock()
	defer backendsMu.Unlock()
	for _, b := range backends {
		if b.name == name {
			return b.new(), nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBackend, name)
}

// DefaultBackend returns a backend that opens the first working device for
// this platform. If no device exists at all it falls back to a paced null
// backend so the game keeps running in silence.
func DefaultBackend() Backend {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	var candidates []backendFactory
	for _, b := range backends {
		if b.priority >= 0 {
			candidates = append(candidates, b)
		}
	}
	return &autoBackend{candidates: candidates}
}

type autoBackend struct {
	candidates []backendFactory
	Backend
}

func (a *autoBackend) Open(sampleRate, channels, blockCount, blockSamples int) error {
	var errs []error
	allNotFound := true
	for _, c := range a.candidates {
		b := c.new()
		err := b.Open(sampleRate, channels, blockCount, blockSamples)
		if err == nil {
			log.Printf("audio: using %s backend", c.name)
			a.Backend = b
			return nil
		}
		if !errors.Is(err, errDeviceNotFound) {
			allNotFound = false
		}
		errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
	}

	if allNotFound {
		log.Println("audio: no output device found, playing silently")
		b := &NullBackend{Paced: true}
		if err := b.Open(sampleRate, channels, blockCount, blockSamples); err != nil {
			return err
		}
		a.Backend = b
		return nil
	}
	return errors.Join(errs...)
}

func (a *autoBackend) Underruns() uint64 {
	if r, ok := a.Backend.(UnderrunReporter); ok {
		return r.Underruns()
	}
	return 0
}
