package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TRANSCRIBE_BACKEND", "google")
	t.Setenv("GOOGLE_SPEECH_API_KEY", "key")
	t.Setenv("WORK_DIR", "/tmp/pace")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("USE_MOCK_TRANSCRIBE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Language != "bn-BD" {
		t.Fatalf("language = %q, want bn-BD", cfg.Language)
	}
	if cfg.UploadDir != "/tmp/pace/uploads" {
		t.Fatalf("upload dir = %q", cfg.UploadDir)
	}
	if cfg.SampleRate != 16000 {
		t.Fatalf("sample rate = %d", cfg.SampleRate)
	}
	if cfg.TranscribeTimeout != 40*time.Second {
		t.Fatalf("timeout = %s", cfg.TranscribeTimeout)
	}
	if cfg.UploadTimeout != 10*time.Minute {
		t.Fatalf("upload timeout = %s", cfg.UploadTimeout)
	}
	if cfg.MaxUploadBytes != 100<<20 {
		t.Fatalf("max upload = %d", cfg.MaxUploadBytes)
	}
}

func TestLoadMockOverridesBackend(t *testing.T) {
	t.Setenv("TRANSCRIBE_BACKEND", "google")
	t.Setenv("GOOGLE_SPEECH_API_KEY", "")
	t.Setenv("USE_MOCK_TRANSCRIBE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != BackendMock {
		t.Fatalf("backend = %q, want mock", cfg.Backend)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "google without key", cfg: Config{Backend: BackendGoogle, SampleRate: 16000, Language: "bn-BD"}, wantErr: true},
		{name: "whisper without key", cfg: Config{Backend: BackendWhisper, SampleRate: 16000, Language: "bn-BD"}, wantErr: true},
		{name: "whisper with key", cfg: Config{Backend: BackendWhisper, OpenAIAPIKey: "k", SampleRate: 16000, Language: "bn-BD", UploadTimeout: time.Minute}},
		{name: "no upload timeout", cfg: Config{Backend: BackendMock, SampleRate: 16000, Language: "bn-BD"}, wantErr: true},
		{name: "unknown backend", cfg: Config{Backend: "azure", SampleRate: 16000, Language: "bn-BD"}, wantErr: true},
		{name: "bad sample rate", cfg: Config{Backend: BackendMock, Language: "bn-BD"}, wantErr: true},
		{name: "empty language", cfg: Config{Backend: BackendMock, SampleRate: 8000}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
