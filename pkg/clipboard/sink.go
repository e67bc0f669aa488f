// Package clipboard exports generated scripts to the operator's clipboard.
//
// A Sink accepts text. The Copier drives a sink asynchronously and keeps a
// short-lived acknowledgment that a front end can display.
package clipboard

import (
	"context"
	"io"
	"os"
	"sync"

	osc52 "github.com/aymanbagabas/go-osc52/v2"

	"github.com/vidinfra/tenbyte-userdata/pkg/errdefs"
)

// Sink is a destination for copied text.
type Sink interface {
	WriteText(ctx context.Context, text string) error
}

// Multiplexer selects how an OSC 52 sequence is wrapped.
type Multiplexer string

const (
	MultiplexerNone   Multiplexer = "none"
	MultiplexerTmux   Multiplexer = "tmux"
	MultiplexerScreen Multiplexer = "screen"
)

// DetectMultiplexer inspects the environment for tmux or GNU screen.
func DetectMultiplexer() Multiplexer {
	switch {
	case os.Getenv("TMUX") != "":
		return MultiplexerTmux
	case os.Getenv("STY") != "":
		return MultiplexerScreen
	default:
		return MultiplexerNone
	}
}

// OSC52Sink copies text by writing an OSC 52 escape sequence to a
// terminal. It works over SSH without access to a local display server.
type OSC52Sink struct {
	mu  sync.Mutex
	w   io.Writer
	mux Multiplexer
}

// NewOSC52Sink creates a sink that writes to w, typically os.Stderr or the
// controlling tty.
func NewOSC52Sink(w io.Writer, mux Multiplexer) *OSC52Sink {
	return &OSC52Sink{w: w, mux: mux}
}

// Sequence returns the escape sequence that WriteText would emit.
func (s *OSC52Sink) Sequence(text string) string {
	return s.sequence(text).String()
}

func (s *OSC52Sink) sequence(text string) osc52.Sequence {
	seq := osc52.New(text)
	switch s.mux {
	case MultiplexerTmux:
		seq = seq.Tmux()
	case MultiplexerScreen:
		seq = seq.Screen()
	}
	return seq
}

// WriteText implements Sink.
func (s *OSC52Sink) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sequence(text).WriteTo(s.w); err != nil {
		return errdefs.NewSinkError("failed to write OSC 52 sequence", err).
			WithCode(errdefs.ErrCodeClipboard)
	}
	return nil
}

// WriterSink writes plain text to an io.Writer.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink backed by w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// WriteText implements Sink.
func (s *WriterSink) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, text); err != nil {
		return errdefs.NewSinkError("failed to write clipboard text", err).
			WithCode(errdefs.ErrCodeClipboard)
	}
	return nil
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, text string) error

// WriteText implements Sink.
func (f SinkFunc) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}
