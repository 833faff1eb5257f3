// Copyright 2022 The Oto Authors
// Copyright 2025 Lundis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package audio

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"
)

func init() {
	registerBackend("waveout", 0, func() Backend { return &WaveOutBackend{} })
}

var (
	winmm = windows.NewLazySystemDLL("winmm.dll")

	procWaveOutOpen            = winmm.NewProc("waveOutOpen")
	procWaveOutClose           = winmm.NewProc("waveOutClose")
	procWaveOutPrepareHeader   = winmm.NewProc("waveOutPrepareHeader")
	procWaveOutUnprepareHeader = winmm.NewProc("waveOutUnprepareHeader")
	procWaveOutWrite           = winmm.NewProc("waveOutWrite")
	procWaveOutReset           = winmm.NewProc("waveOutReset")
)

const (
	waveMapper       = 0xFFFFFFFF
	callbackFunction = 0x30000
	womDone          = 0x3BD
	whdrPrepared     = 0x2
	waveFormatPCM    = 1

	mmsyserrNoError     = 0
	mmsyserrBadDeviceID = 2
	mmsyserrNoDriver    = 6
)

type waveFormatEx struct {
	formatTag      uint16
	channels       uint16
	samplesPerSec  uint32
	avgBytesPerSec uint32
	blockAlign     uint16
	bitsPerSample  uint16
	cbSize         uint16
}

type waveHdr struct {
	data          *byte
	bufferLength  uint32
	bytesRecorded uint32
	user          uintptr
	flags         uint32
	loops         uint32
	next          uintptr
	reserved      uintptr
}

type mmError struct {
	op   string
	code uintptr
}

func (e *mmError) Error() string {
	return fmt.Sprintf("winmm: %s failed: MMRESULT %d", e.op, e.code)
}

// waveOut functions must not be called from the callback, so the callback
// only returns blocks to the queue. Instances are looked up by id since
// the callback is shared by every device.
var (
	waveOutCallback = windows.NewCallback(waveOutProc)
	waveOutDevices  sync.Map
	waveOutNextID   atomic.Uintptr
)

func waveOutProc(hwo, msg, instance, param1, param2 uintptr) uintptr {
	if msg != womDone {
		return 0
	}
	v, ok := waveOutDevices.Load(instance)
	if !ok {
		return 0
	}
	hdr := (*waveHdr)(unsafe.Pointer(param1))
	v.(*WaveOutBackend).q.release(int(hdr.user))
	return 0
}

// WaveOutBackend plays through the Windows waveOut API.
type WaveOutBackend struct {
	id      uintptr
	handle  uintptr
	headers []waveHdr
	q       *blockQueue
	mu      sync.Mutex
}

func (b *WaveOutBackend) Open(sampleRate, channels, blockCount, blockSamples int) error {
	if err := winmm.Load(); err != nil {
		return fmt.Errorf("%w: %w", errDeviceNotFound, err)
	}

	f := waveFormatEx{
		formatTag:      waveFormatPCM,
		channels:       uint16(channels),
		samplesPerSec:  uint32(sampleRate),
		avgBytesPerSec: uint32(sampleRate * channels * 2),
		blockAlign:     uint16(channels * 2),
		bitsPerSample:  16,
	}

	b.id = waveOutNextID.Add(1)
	b.q = newBlockQueue(blockCount)
	b.headers = make([]waveHdr, blockCount)
	waveOutDevices.Store(b.id, b)

	r, _, _ := procWaveOutOpen.Call(
		uintptr(unsafe.Pointer(&b.handle)),
		waveMapper,
		uintptr(unsafe.Pointer(&f)),
		waveOutCallback,
		b.id,
		callbackFunction)
	if r != mmsyserrNoError {
		waveOutDevices.Delete(b.id)
		err := &mmError{"waveOutOpen", r}
		if r == mmsyserrBadDeviceID || r == mmsyserrNoDriver {
			return fmt.Errorf("%w: %w", errDeviceNotFound, err)
		}
		return err
	}
	return nil
}

func (b *WaveOutBackend) AcquireFreeBlock(ctx context.Context) (int, error) {
	return b.q.acquire(ctx)
}

func (b *WaveOutBackend) Submit(block int, data []int16) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handle == 0 {
		return ErrBackendClosed
	}
	hdr := &b.headers[block]
	if err := b.unprepare(hdr); err != nil {
		return err
	}
	*hdr = waveHdr{
		data:         (*byte)(unsafe.Pointer(&data[0])),
		bufferLength: uint32(len(data) * 2),
		user:         uintptr(block),
	}
	size := unsafe.Sizeof(*hdr)
	if r, _, _ := procWaveOutPrepareHeader.Call(b.handle, uintptr(unsafe.Pointer(hdr)), size); r != mmsyserrNoError {
		return &mmError{"waveOutPrepareHeader", r}
	}
	if r, _, _ := procWaveOutWrite.Call(b.handle, uintptr(unsafe.Pointer(hdr)), size); r != mmsyserrNoError {
		return &mmError{"waveOutWrite", r}
	}
	return nil
}

// unprepare releases a header that finished playing. Callers hold mu.
func (b *WaveOutBackend) unprepare(hdr *waveHdr) error {
	if hdr.flags&whdrPrepared == 0 {
		return nil
	}
	r, _, _ := procWaveOutUnprepareHeader.Call(b.handle, uintptr(unsafe.Pointer(hdr)), unsafe.Sizeof(*hdr))
	if r != mmsyserrNoError {
		return &mmError{"waveOutUnprepareHeader", r}
	}
	return nil
}

func (b *WaveOutBackend) Close() error {
	b.q.close()

	b.mu.Lock()
	defer b.mu.Unlock()
	defer waveOutDevices.Delete(b.id)

	if b.handle == 0 {
		return nil
	}
	if r, _, _ := procWaveOutReset.Call(b.handle); r != mmsyserrNoError {
		return &mmError{"waveOutReset", r}
	}
	for i := range b.headers {
		if err := b.unprepare(&b.headers[i]); err != nil {
			return err
		}
	}
	r, _, _ := procWaveOutClose.Call(b.handle)
	b.handle = 0
	if r != mmsyserrNoError {
		return &mmError{"waveOutClose", r}
	}
	return nil
}
