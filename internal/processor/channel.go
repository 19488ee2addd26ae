package processor

import (
	"io"

	"github.com/whmcsguru/ExceptionParser/internal/model"
)

// ChannelSource adapts a line channel to a LineSource. A closed channel
// reads as io.EOF.
type ChannelSource struct {
	lines <-chan model.RawLine
}

func FromChannel(lines <-chan model.RawLine) *ChannelSource {
	return &ChannelSource{lines: lines}
}

func (s *ChannelSource) Next() (model.RawLine, error) {
	raw, ok := <-s.lines
	if !ok {
		return model.RawLine{}, io.EOF
	}
	return raw, nil
}
