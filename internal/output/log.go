package output

import (
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/stripd/internal/pixel"
)

// Log writes a summary of every frame at debug level. It is the sink used
// when no hardware is attached.
type Log struct {
	frames uint64
}

// NewLog creates a log sink.
func NewLog() *Log {
	return &Log{}
}

func (l *Log) Write(frame []pixel.Color) error {
	l.frames++
	if e := log.Debug(); e.Enabled() {
		lit := 0
		for _, c := range frame {
			if !c.IsBlack() {
				lit++
			}
		}
		first := pixel.Black
		if len(frame) > 0 {
			first = frame[0]
		}
		e.Uint64("frame", l.frames).
			Int("lit", lit).
			Str("first", first.String()).
			Msg("Frame")
	}
	return nil
}

// Frames returns how many frames were written.
func (l *Log) Frames() uint64 {
	return l.frames
}

func (l *Log) Close() error {
	return nil
}
