// Package wavtest builds in-memory WAV files for tests.
package wavtest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Encode returns a canonical 16-bit PCM WAV file holding samples.
func Encode(sampleRate, channels int, samples []int16) []byte {
	buf := new(bytes.Buffer)

	blockAlign := uint16(channels * 2)
	dataSize := uint32(len(samples) * 2)

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate)*uint32(blockAlign))
	binary.Write(buf, binary.LittleEndian, blockAlign)
	binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	binary.Write(buf, binary.LittleEndian, samples)
	return buf.Bytes()
}

// Sine returns frames of a mono sine wave at half amplitude.
func Sine(sampleRate, frames int, freq float64) []int16 {
	out := make([]int16, frames)
	for i := range out {
		out[i] = int16(math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)) * 16384)
	}
	return out
}

// Constant returns n copies of v.
func Constant(n int, v int16) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// EncodeAIFF returns a 16-bit PCM AIFF file holding samples.
func EncodeAIFF(sampleRate, channels int, samples []int16) []byte {
	comm := new(bytes.Buffer)
	binary.Write(comm, binary.BigEndian, uint16(channels))
	binary.Write(comm, binary.BigEndian, uint32(len(samples)/channels))
	binary.Write(comm, binary.BigEndian, uint16(16))
	comm.Write(extended(float64(sampleRate)))

	ssnd := new(bytes.Buffer)
	binary.Write(ssnd, binary.BigEndian, uint32(0))
	binary.Write(ssnd, binary.BigEndian, uint32(0))
	binary.Write(ssnd, binary.BigEndian, samples)

	buf := new(bytes.Buffer)
	buf.WriteString("FORM")
	binary.Write(buf, binary.BigEndian, uint32(4+8+comm.Len()+8+ssnd.Len()))
	buf.WriteString("AIFF")
	buf.WriteString("COMM")
	binary.Write(buf, binary.BigEndian, uint32(comm.Len()))
	buf.Write(comm.Bytes())
	buf.WriteString("SSND")
	binary.Write(buf, binary.BigEndian, uint32(ssnd.Len()))
	buf.Write(ssnd.Bytes())
	return buf.Bytes()
}

// extended encodes a positive integer rate as an 80-bit IEEE 754 extended float.
func extended(v float64) []byte {
	out := make([]byte, 10)
	if v <= 0 {
		return out
	}
	exp := int(math.Floor(math.Log2(v)))
	mantissa := uint64(v * math.Pow(2, float64(63-exp)))
	binary.BigEndian.PutUint16(out, uint16(16383+exp))
	binary.BigEndian.PutUint64(out[2:], mantissa)
	return out
}
