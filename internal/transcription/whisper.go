package transcription

import (
	"bytes"
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// WhisperClient transcribes through the OpenAI audio transcription API.
type WhisperClient struct {
	client *openai.Client
	model  string
}

// NewWhisperClient builds a client; baseURL may be empty for the public API.
func NewWhisperClient(apiKey, baseURL, model string) *WhisperClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperClient{client: openai.NewClientWithConfig(cfg), model: model}
}

func (w *WhisperClient) Name() string { return "whisper" }

// Recognize uploads the waveform as a single file.
func (w *WhisperClient) Recognize(ctx context.Context, audio Audio, language string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(audio.Data),
		Language: primarySubtag(language),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// primarySubtag reduces "bn-BD" to the ISO-639-1 code "bn".
func primarySubtag(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}
