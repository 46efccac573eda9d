package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"

	"speech-pace-go/internal/logger"
	"speech-pace-go/internal/media"
	"speech-pace-go/internal/processor"
	"speech-pace-go/internal/types"
)

// SubmissionProcessor runs one uploaded file through the pipeline.
type SubmissionProcessor interface {
	ProcessReader(ctx context.Context, body io.Reader, filename string) (types.SubmissionResult, error)
}

// Handlers serves the upload API.
type Handlers struct {
	proc           SubmissionProcessor
	log            *logger.Logger
	maxUploadBytes int64
}

// NewHandlers builds handlers; maxUploadBytes <= 0 disables the limit.
func NewHandlers(proc SubmissionProcessor, log *logger.Logger, maxUploadBytes int64) *Handlers {
	return &Handlers{proc: proc, log: log.Component("http"), maxUploadBytes: maxUploadBytes}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "ok")
}

// Formats lists the accepted upload suffixes.
func (h *Handlers) Formats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"accepted": strings.Split(media.AcceptedSuffixes(), ", "),
	})
}

// Upload accepts a multipart form with a "file" part and returns the
// transcript and words per minute.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	reqLog := h.log.WithRequest(r).WithField("handler", "upload")

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			reqLog.WithField("limit", tooLarge.Limit).Warn("upload too large")
			http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		if isTimeout(err) {
			reqLog.WithField("error", err.Error()).Warn("upload timed out")
			http.Error(w, "Upload timed out", http.StatusRequestTimeout)
			return
		}
		reqLog.WithField("error", err.Error()).Warn("bad multipart form")
		http.Error(w, "No file part", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		// an empty filename arrives as a plain form value
		if _, ok := r.MultipartForm.Value["file"]; ok {
			http.Error(w, "No selected file", http.StatusBadRequest)
			return
		}
		http.Error(w, "No file part", http.StatusBadRequest)
		return
	}
	defer file.Close()
	if header.Filename == "" {
		http.Error(w, "No selected file", http.StatusBadRequest)
		return
	}

	reqLog = reqLog.WithField("filename", header.Filename).WithField("size", header.Size)
	reqLog.Info("upload received")

	res, err := h.proc.ProcessReader(r.Context(), file, header.Filename)
	status := processor.StatusCode(err)
	if err != nil {
		reqLog.WithField("error", err.Error()).WithField("status", status).Warn("processing failed")
	}
	writeJSON(w, status, res)
}

// isTimeout reports whether err came from the server's read deadline.
func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
