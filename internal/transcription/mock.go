package transcription

import "context"

// MockRecognizer returns a fixed transcript; silence when Transcript is empty.
type MockRecognizer struct {
	Transcript string
}

// NewMockRecognizer returns the offline demo recognizer.
func NewMockRecognizer() *MockRecognizer {
	return &MockRecognizer{Transcript: "ami tomake bhalobashi"}
}

func (m *MockRecognizer) Name() string { return "mock" }

func (m *MockRecognizer) Recognize(ctx context.Context, audio Audio, language string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Transcript == "" {
		return "", ErrNoSpeech
	}
	return m.Transcript, nil
}
