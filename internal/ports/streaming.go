package ports

import (
	"context"
	"fmt"
	"io"

	"github.com/baditaflorin/go_kurdish_nlp/internal/core/domain"
)

// StreamingMode selects what a stream processor emits.
type StreamingMode int

const (
	// TokenByToken emits every word token
	TokenByToken StreamingMode = iota
	// SentenceBySentence emits every sentence
	SentenceBySentence
	// StemByStem emits the stem of every word token
	StemByStem
)

// String returns the wire name of the mode.
func (m StreamingMode) String() string {
	switch m {
	case TokenByToken:
		return "tokens"
	case SentenceBySentence:
		return "sentences"
	case StemByStem:
		return "stems"
	default:
		return "unknown"
	}
}

// ParseStreamingMode returns the mode whose String form is name.
func ParseStreamingMode(name string) (StreamingMode, error) {
	for _, m := range []StreamingMode{TokenByToken, SentenceBySentence, StemByStem} {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown streaming mode %q", name)
}

// EmitFunc receives each item produced by a stream processor, in order.
// Returning an error stops processing.
type EmitFunc func(item string) error

// StreamProcessor defines the interface for processing text streams
type StreamProcessor interface {
	// ProcessStream reads the input and passes every produced item to emit
	ProcessStream(ctx context.Context, reader io.Reader, mode StreamingMode, emit EmitFunc) (domain.StreamResult, error)

	// ProcessStreamWithWriter writes every produced item to writer, one per line
	ProcessStreamWithWriter(ctx context.Context, reader io.Reader, writer io.Writer, mode StreamingMode) (domain.StreamResult, error)
}
