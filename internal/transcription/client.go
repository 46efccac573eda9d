package transcription

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// syncLimit is the longest audio Google accepts inline on speech:recognize.
// Longer clips go through speech:longrunningrecognize.
const syncLimit = time.Minute

var errOperationPending = errors.New("speech operation still running")

// GoogleClient calls the Cloud Speech-to-Text v1 REST API.
type GoogleClient struct {
	endpoint        string
	apiKey          string
	httpClient      *http.Client
	maxElapsed      time.Duration
	pollInterval    time.Duration
	maxPollInterval time.Duration
}

// NewGoogleClient builds a client for the speech:recognize endpoint,
// authenticated with apiKey. Sibling methods (long-running recognition and
// operation polling) are resolved relative to it.
func NewGoogleClient(endpoint, apiKey string) *GoogleClient {
	return &GoogleClient{
		endpoint:        endpoint,
		apiKey:          apiKey,
		httpClient:      httpClient,
		maxElapsed:      12 * time.Second,
		pollInterval:    time.Second,
		maxPollInterval: 5 * time.Second,
	}
}

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

type recognitionConfig struct {
	Encoding          string `json:"encoding"`
	SampleRateHertz   int    `json:"sampleRateHertz,omitempty"`
	AudioChannelCount int    `json:"audioChannelCount,omitempty"`
	LanguageCode      string `json:"languageCode"`
}

type recognitionAudio struct {
	Content string `json:"content"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

// apiReply is a decoded response body that may carry an error status.
type apiReply interface {
	apiErr() *apiError
}

type RecognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
	TotalBilledTime string    `json:"totalBilledTime,omitempty"`
	Error           *apiError `json:"error,omitempty"`
}

func (r *RecognizeResponse) apiErr() *apiError { return r.Error }

// operation is a long-running recognition job.
type operation struct {
	Name     string             `json:"name"`
	Done     bool               `json:"done"`
	Response *RecognizeResponse `json:"response,omitempty"`
	Error    *apiError          `json:"error,omitempty"`
}

func (o *operation) apiErr() *apiError { return o.Error }

func (g *GoogleClient) Name() string { return "google" }

// Recognize sends the whole waveform inline. Clips up to a minute use one
// synchronous request; longer clips start a long-running operation and poll
// it until done or ctx expires.
func (g *GoogleClient) Recognize(ctx context.Context, audio Audio, language string) (string, error) {
	payload, err := json.Marshal(recognizeRequest{
		Config: recognitionConfig{
			Encoding:          "LINEAR16",
			SampleRateHertz:   audio.SampleRate,
			AudioChannelCount: audio.Channels,
			LanguageCode:      language,
		},
		Audio: recognitionAudio{Content: base64.StdEncoding.EncodeToString(audio.Data)},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	var resp *RecognizeResponse
	if audio.Length() > syncLimit {
		resp, err = g.recognizeLong(ctx, payload)
	} else {
		resp, err = g.recognizeSync(ctx, payload)
	}
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		if t := strings.TrimSpace(r.Alternatives[0].Transcript); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoSpeech
	}
	return strings.Join(parts, " "), nil
}

func (g *GoogleClient) recognizeSync(ctx context.Context, payload []byte) (*RecognizeResponse, error) {
	u, err := g.methodURL("/speech:recognize")
	if err != nil {
		return nil, err
	}
	var resp RecognizeResponse
	if err := g.doJSON(ctx, http.MethodPost, u, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (g *GoogleClient) recognizeLong(ctx context.Context, payload []byte) (*RecognizeResponse, error) {
	u, err := g.methodURL("/speech:longrunningrecognize")
	if err != nil {
		return nil, err
	}
	var op operation
	if err := g.doJSON(ctx, http.MethodPost, u, payload, &op); err != nil {
		return nil, err
	}
	if op.Name == "" && !op.Done {
		return nil, errors.New("speech operation started without a name")
	}

	opURL, err := g.methodURL("/operations/" + url.PathEscape(op.Name))
	if err != nil {
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.pollInterval
	bo.MaxInterval = g.maxPollInterval
	// bounded by ctx only
	bo.MaxElapsedTime = 0

	poll := func() error {
		if op.Done {
			return nil
		}
		var next operation
		if err := g.doJSON(ctx, http.MethodGet, opURL, nil, &next); err != nil {
			return backoff.Permanent(err)
		}
		op = next
		if !op.Done {
			return errOperationPending
		}
		return nil
	}
	if err := backoff.Retry(poll, backoff.WithContext(bo, ctx)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return nil, fmt.Errorf("speech operation %s: %w", op.Name, ctxErr)
		}
		return nil, fmt.Errorf("speech operation %s: %w", op.Name, err)
	}
	if op.Response == nil {
		return &RecognizeResponse{}, nil
	}
	return op.Response, nil
}

// methodURL resolves a v1 method path next to the configured recognize
// endpoint and adds the API key.
func (g *GoogleClient) methodURL(path string) (string, error) {
	base := strings.TrimSuffix(strings.TrimRight(g.endpoint, "/"), "/speech:recognize")
	u, err := url.Parse(base + path)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", g.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// doJSON sends payload (nil for GET) and decodes the reply, retrying network
// errors, 429 and 5xx with exponential backoff. Other 4xx replies and error
// bodies are not retried.
func (g *GoogleClient) doJSON(ctx context.Context, method, endpoint string, payload []byte, target apiReply) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = g.maxElapsed

	var lastErr error
	op := func() error {
		body := io.Reader(http.NoBody)
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := g.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("speech request: %w", err)
			if ctx.Err() != nil {
				return backoff.Permanent(lastErr)
			}
			return lastErr
		}
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("speech server error: status=%d body=%s", resp.StatusCode, truncate(raw))
			return lastErr
		case resp.StatusCode >= 300:
			lastErr = fmt.Errorf("speech request rejected: status=%d body=%s", resp.StatusCode, truncate(raw))
			return backoff.Permanent(lastErr)
		}

		if err := json.Unmarshal(raw, target); err != nil {
			lastErr = fmt.Errorf("json decode error: %v body=%s", err, truncate(raw))
			return backoff.Permanent(lastErr)
		}
		if e := target.apiErr(); e != nil {
			lastErr = fmt.Errorf("speech error %d %s: %s", e.Code, e.Status, e.Message)
			return backoff.Permanent(lastErr)
		}
		lastErr = nil
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(lastErr, ctxErr) {
			return fmt.Errorf("%w: %v", ctxErr, lastErr)
		}
		return lastErr
	}
	return nil
}

func truncate(b []byte) string {
	const limit = 512
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
