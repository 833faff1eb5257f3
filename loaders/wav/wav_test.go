package wav_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lundis/go-gamesound/loaders/wav"
)

// createWAVFile builds a canonical 44-byte header WAV around samples.
func createWAVFile(format uint16, sampleRate, channels, bitsPerSample int, samples []int16) []byte {
	buf := new(bytes.Buffer)

	numChannels := uint16(channels)
	bits := uint16(bitsPerSample)
	byteRate := uint32(sampleRate) * uint32(numChannels) * uint32(bits/8)
	blockAlign := numChannels * (bits / 8)
	dataSize := uint32(len(samples) * 2)

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, format)
	binary.Write(buf, binary.LittleEndian, numChannels)
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, byteRate)
	binary.Write(buf, binary.LittleEndian, blockAlign)
	binary.Write(buf, binary.LittleEndian, bits)

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, s)
	}
	return buf.Bytes()
}

func TestLoadMono(t *testing.T) {
	data := createWAVFile(1, 8000, 1, 16, []int16{0, 16384, -16384, 32767, -32768})
	s, err := wav.LoadWav(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadWav() error = %v", err)
	}
	if s.Channels != 1 || s.Frames != 5 {
		t.Fatalf("got %d channels and %d frames, want 1 and 5", s.Channels, s.Frames)
	}
	if s.Header.SampleRate != 8000 {
		t.Errorf("SampleRate = %d, want 8000", s.Header.SampleRate)
	}
	if s.Header.BitsPerSample != 16 || s.Header.BlockAlign != 2 {
		t.Errorf("BitsPerSample = %d, BlockAlign = %d", s.Header.BitsPerSample, s.Header.BlockAlign)
	}
	want := []float32{0, 0.5, -0.5}
	for i, w := range want {
		if s.Data[i] != w {
			t.Errorf("Data[%d] = %v, want %v", i, s.Data[i], w)
		}
	}
	for _, v := range s.Data {
		if v < -1 || v > 1 {
			t.Errorf("value %v is outside [-1, 1]", v)
		}
	}
}

func TestLoadStereo(t *testing.T) {
	data := createWAVFile(1, 44100, 2, 16, []int16{100, 200, 300, 400, 500, 600})
	s, err := wav.LoadWav(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadWav() error = %v", err)
	}
	if s.Channels != 2 || s.Frames != 3 {
		t.Fatalf("got %d channels and %d frames, want 2 and 3", s.Channels, s.Frames)
	}
	if !s.Valid {
		t.Errorf("sample not marked valid")
	}
}

func TestLoad8bit(t *testing.T) {
	data := createWAVFile(1, 8000, 1, 8, []int16{1, 2, 3, 4})
	if _, err := wav.LoadWav(bytes.NewReader(data)); err == nil {
		t.Fatalf("should not load non-16bit PCM tracks without error")
	}
}

func TestLoadNonPCM(t *testing.T) {
	data := createWAVFile(3, 8000, 1, 16, []int16{1, 2, 3, 4})
	if _, err := wav.LoadWav(bytes.NewReader(data)); err == nil {
		t.Fatalf("should not load non-PCM tracks without error")
	}
}

func TestLoadNotWav(t *testing.T) {
	_, err := wav.LoadWav(bytes.NewReader([]byte("NOT A WAV FILE AT ALL, JUST SOME TEXT")))
	if !errors.Is(err, wav.ErrNotWavFile) {
		t.Fatalf("LoadWav() error = %v, want ErrNotWavFile", err)
	}
}

func TestLoadWavFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := os.WriteFile(path, createWAVFile(1, 22050, 1, 16, []int16{1, 2, 3, 4}), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := wav.LoadWavFile(path)
	if err != nil {
		t.Fatalf("LoadWavFile() error = %v", err)
	}
	if s.Frames != 4 {
		t.Errorf("Frames = %d, want 4", s.Frames)
	}
}

func TestLoadWavFileMissing(t *testing.T) {
	if _, err := wav.LoadWavFile(filepath.Join(t.TempDir(), "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadWavFile() error = %v, want os.ErrNotExist", err)
	}
}
