package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vbonduro/glowreader/internal/domain"
	"github.com/vbonduro/glowreader/internal/service"
)

const maxPhotoSize = 20 * 1024 * 1024 // 20 MB

const (
	msgUnsupportedImage = "Unsupported image format."
	msgUpstreamFailed   = "Failed to get analysis from AI."
	msgBadBody          = "Invalid request body."
)

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorBody{Error: msg, Details: details})
}

// handleVision relays one multipart submission to the vision backend.
func (s *Server) handleVision(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, msgBadBody, "")
		return
	}

	image, err := readPhoto(r, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadBody, "")
		return
	}

	mode := domain.Mode(strings.TrimSpace(r.FormValue("mode")))
	req := &domain.AnalysisRequest{
		Mode:   mode,
		Image:  image,
		Fields: make(map[string]string),
	}
	for _, name := range mode.Fields() {
		req.Fields[name] = r.FormValue(name)
	}

	if err := service.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	mimeType, ok := allowedImageMIME(image)
	if !ok {
		writeError(w, http.StatusBadRequest, msgUnsupportedImage, "")
		return
	}
	req.MIMEType = mimeType

	resp, err := s.relay.Analyze(r.Context(), req)
	if err != nil {
		if service.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		s.logger.Error("vision relay failed", "mode", string(mode), "error", err)
		writeError(w, http.StatusInternalServerError, msgUpstreamFailed, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// readPhoto returns the uploaded photo bytes, or nil when the form carries no
// photo part.
func readPhoto(r *http.Request, logger *slog.Logger) ([]byte, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, _, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closeWithLog(file, "upload file", logger)
	return io.ReadAll(file)
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
