package processor

import (
	"fmt"

	"speech-pace-go/internal/config"
	"speech-pace-go/internal/logger"
	"speech-pace-go/internal/media"
	"speech-pace-go/internal/pipeline"
	"speech-pace-go/internal/transcription"
)

// NewRecognizer selects the transcription backend named in cfg.
func NewRecognizer(cfg *config.Config) (transcription.Recognizer, error) {
	switch cfg.Backend {
	case config.BackendGoogle:
		return transcription.NewGoogleClient(cfg.GoogleSpeechURL, cfg.GoogleAPIKey), nil
	case config.BackendWhisper:
		return transcription.NewWhisperClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.WhisperModel), nil
	case config.BackendMock:
		return transcription.NewMockRecognizer(), nil
	default:
		return nil, fmt.Errorf("unknown transcription backend %q", cfg.Backend)
	}
}

// Build wires the production pipeline from configuration.
func Build(cfg *config.Config, log *logger.Logger) (*Processor, error) {
	rec, err := NewRecognizer(cfg)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(pipeline.Options{
		UploadDir:   cfg.UploadDir,
		WorkDir:     cfg.WorkDir,
		Extractor:   media.NewExtractor(cfg.FFmpegPath, cfg.SampleRate, log),
		Normalizer:  media.NewNormalizer(cfg.FFmpegPath, cfg.SampleRate, log),
		Transcriber: transcription.NewAdapter(rec, cfg.Language, cfg.TranscribeTimeout, log),
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}
	log.WithField("backend", rec.Name()).WithField("language", cfg.Language).Info("pipeline ready")
	return New(p, log), nil
}
