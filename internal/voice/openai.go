package voice

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"lavish/internal/log"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultLanguage = "en"
	defaultTimeout  = 30 * time.Second
)

// Config configures the Whisper transcriber.
type Config struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

// Whisper transcribes audio with the OpenAI transcription endpoint.
type Whisper struct {
	client   *openai.Client
	language string
	timeout  time.Duration
	logger   *log.Logger
}

var _ Transcriber = (*Whisper)(nil)

func NewWhisper(cfg Config, logger *log.Logger) *Whisper {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Whisper{
		client:   openai.NewClientWithConfig(oc),
		language: cfg.Language,
		timeout:  cfg.Timeout,
		logger:   logger.WithComponent(log.ComponentVoice),
	}
}

// New returns a Whisper transcriber when an API key is set, Unavailable
// otherwise.
func New(cfg Config, logger *log.Logger) Transcriber {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Unavailable{}
	}
	return NewWhisper(cfg, logger)
}

func (w *Whisper) Available() bool { return true }

func (w *Whisper) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if filename == "" {
		filename = "speech.webm"
	}
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   audio,
		Language: w.language,
	})
	if err != nil {
		w.logger.ErrorContext(ctx, "Transcription failed", log.FieldError, err, "file", filename)
		return "", fmt.Errorf("transcribe: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	w.logger.DebugContext(ctx, "Transcription done",
		"chars", len(text), log.FieldDuration, time.Since(start).Milliseconds())
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}
