package oggvorbis

import (
	"fmt"
	"io"
	"os"

	"github.com/Lundis/go-gamesound/sample"
	"github.com/jfreymuth/oggvorbis"
)

func LoadFile(path string) (*sample.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open: %w", path, err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Load(r io.Reader) (*sample.Sample, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if format.Channels != 1 && format.Channels != 2 {
		return nil, fmt.Errorf("number of channels must be 1 or 2 but was %d: %w", format.Channels, sample.ErrUnsupportedChannels)
	}
	return sample.FromFloat32(data, format.Channels, format.SampleRate)
}
