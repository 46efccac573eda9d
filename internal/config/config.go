package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Transcription backends.
const (
	BackendGoogle  = "google"
	BackendWhisper = "whisper"
	BackendMock    = "mock"
)

// Config is the runtime configuration read from the environment.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	WorkDir    string
	UploadDir  string
	FFmpegPath string
	SampleRate int

	Language          string
	Backend           string
	GoogleAPIKey      string
	GoogleSpeechURL   string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	WhisperModel      string
	TranscribeTimeout time.Duration

	MaxUploadBytes int64
	// UploadTimeout bounds reading a request body; headers have their own
	// short deadline.
	UploadTimeout time.Duration
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	work := envOr("WORK_DIR", filepath.Join(os.TempDir(), "speech-pace"))
	cfg := &Config{
		Port:              envOr("PORT", "8080"),
		Environment:       os.Getenv("ENVIRONMENT"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		WorkDir:           work,
		UploadDir:         envOr("UPLOAD_DIR", filepath.Join(work, "uploads")),
		FFmpegPath:        envOr("FFMPEG_PATH", "ffmpeg"),
		SampleRate:        envInt("SAMPLE_RATE", 16000),
		Language:          envOr("SPEECH_LANGUAGE", "bn-BD"),
		Backend:           strings.ToLower(envOr("TRANSCRIBE_BACKEND", BackendGoogle)),
		GoogleAPIKey:      os.Getenv("GOOGLE_SPEECH_API_KEY"),
		GoogleSpeechURL:   envOr("GOOGLE_SPEECH_URL", "https://speech.googleapis.com/v1/speech:recognize"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		WhisperModel:      envOr("WHISPER_MODEL", "whisper-1"),
		TranscribeTimeout: time.Duration(envInt("TRANSCRIBE_TIMEOUT_SEC", 40)) * time.Second,
		MaxUploadBytes:    int64(envInt("MAX_UPLOAD_MB", 100)) << 20,
		UploadTimeout:     time.Duration(envInt("UPLOAD_TIMEOUT_SEC", 600)) * time.Second,
	}
	if os.Getenv("USE_MOCK_TRANSCRIBE") == "true" {
		cfg.Backend = BackendMock
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("SAMPLE_RATE must be positive, got %d", c.SampleRate)
	}
	if c.UploadTimeout <= 0 {
		return fmt.Errorf("UPLOAD_TIMEOUT_SEC must be positive, got %s", c.UploadTimeout)
	}
	if strings.TrimSpace(c.Language) == "" {
		return errors.New("SPEECH_LANGUAGE must not be empty")
	}
	switch c.Backend {
	case BackendGoogle:
		if c.GoogleAPIKey == "" {
			return errors.New("GOOGLE_SPEECH_API_KEY not set")
		}
	case BackendWhisper:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY not set")
		}
	case BackendMock:
	default:
		return fmt.Errorf("unknown TRANSCRIBE_BACKEND %q (google|whisper|mock)", c.Backend)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}
