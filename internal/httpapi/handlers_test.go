package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/iotest"

	"speech-pace-go/internal/logger"
	"speech-pace-go/internal/pipeline"
	"speech-pace-go/internal/types"
)

type stubProcessor struct {
	res      types.SubmissionResult
	err      error
	filename string
	body     string
}

func (s *stubProcessor) ProcessReader(ctx context.Context, body io.Reader, filename string) (types.SubmissionResult, error) {
	s.filename = filename
	b, _ := io.ReadAll(body)
	s.body = string(b)
	return s.res, s.err
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename == "" {
		if err := mw.WriteField(field, content); err != nil {
			t.Fatal(err)
		}
	} else {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		io.WriteString(fw, content)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUploadSuccess(t *testing.T) {
	stub := &stubProcessor{res: types.SubmissionResult{Status: types.StatusOK, Transcript: "ami tomake bhalobashi", WPM: 1.5}}
	router := NewRouter(NewHandlers(stub, logger.Discard(), 1<<20))

	body, ctype := multipartBody(t, "file", "clip.mp4", "video-bytes")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ctype)
	rec := serve(router, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got types.SubmissionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.WPM != 1.5 || got.Transcript != "ami tomake bhalobashi" {
		t.Fatalf("response = %+v", got)
	}
	if stub.filename != "clip.mp4" || stub.body != "video-bytes" {
		t.Fatalf("processor saw %q / %q", stub.filename, stub.body)
	}
}

func TestUploadMapsClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "client", err: &pipeline.Error{Kind: pipeline.KindUnsupportedFormat, Class: pipeline.ClassClient}, want: http.StatusBadRequest},
		{name: "server", err: &pipeline.Error{Kind: pipeline.KindServiceUnavailable, Class: pipeline.ClassServer}, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubProcessor{err: tt.err, res: types.SubmissionResult{Status: "x", Error: "msg"}}
			router := NewRouter(NewHandlers(stub, logger.Discard(), 0))
			body, ctype := multipartBody(t, "file", "note.txt", "x")
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", ctype)

			rec := serve(router, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if !strings.Contains(rec.Body.String(), `"error": "msg"`) {
				t.Fatalf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestUploadMissingParts(t *testing.T) {
	router := NewRouter(NewHandlers(&stubProcessor{}, logger.Discard(), 0))

	body, ctype := multipartBody(t, "other", "clip.mp4", "x")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ctype)
	if rec := serve(router, req); rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "No file part") {
		t.Fatalf("missing part: %d %s", rec.Code, rec.Body.String())
	}

	body, ctype = multipartBody(t, "file", "", "")
	req = httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ctype)
	if rec := serve(router, req); rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "No selected file") {
		t.Fatalf("empty filename: %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("plain"))
	if rec := serve(router, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-multipart: %d", rec.Code)
	}
}

func TestUploadTooLarge(t *testing.T) {
	router := NewRouter(NewHandlers(&stubProcessor{}, logger.Discard(), 64))
	body, ctype := multipartBody(t, "file", "clip.mp4", strings.Repeat("x", 4096))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ctype)

	if rec := serve(router, req); rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestUploadReadTimeout(t *testing.T) {
	router := NewRouter(NewHandlers(&stubProcessor{}, logger.Discard(), 0))
	body, ctype := multipartBody(t, "file", "clip.mp4", strings.Repeat("x", 4096))
	partial := body.Bytes()[:body.Len()/2]

	tests := []struct {
		name string
		body io.Reader
	}{
		{name: "before first part", body: iotest.ErrReader(os.ErrDeadlineExceeded)},
		{name: "inside file part", body: io.MultiReader(bytes.NewReader(partial), iotest.ErrReader(os.ErrDeadlineExceeded))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/upload", tt.body)
			req.Header.Set("Content-Type", ctype)
			if rec := serve(router, req); rec.Code != http.StatusRequestTimeout {
				t.Fatalf("status = %d %s, want 408", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHealthAndFormats(t *testing.T) {
	router := NewRouter(NewHandlers(&stubProcessor{}, logger.Discard(), 0))

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/formats", nil))
	var got struct {
		Accepted []string `json:"accepted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Accepted) != 4 {
		t.Fatalf("accepted = %v", got.Accepted)
	}

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
}
