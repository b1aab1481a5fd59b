// Package voice turns recorded speech into a transaction description.
package voice

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrUnavailable means no speech backend is configured.
	ErrUnavailable = errors.New("voice input not supported")
	ErrNoSpeech    = errors.New("no speech recognized")
)

// Transcriber converts an audio upload to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
	Available() bool
}

// Unavailable is the transcriber used when no backend is configured.
type Unavailable struct{}

func (Unavailable) Transcribe(context.Context, io.Reader, string) (string, error) {
	return "", ErrUnavailable
}

func (Unavailable) Available() bool { return false }
