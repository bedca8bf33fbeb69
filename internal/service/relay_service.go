package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vbonduro/glowreader/internal/domain"
	"github.com/vbonduro/glowreader/internal/prompt"
	"github.com/vbonduro/glowreader/internal/vision"
)

// User-facing messages for rejected submissions.
const (
	MsgNoPhoto     = "No photo uploaded."
	MsgInvalidMode = "Invalid mode specified."
)

// ValidationError marks a submission that was rejected before any upstream
// call was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RelayService turns a form submission into a single vision-backend call.
type RelayService struct {
	visionAPI vision.VisionAnalyzer
	safety    []vision.SafetySetting
	logger    *slog.Logger
}

func NewRelayService(visionAPI vision.VisionAnalyzer, safety []vision.SafetySetting, logger *slog.Logger) *RelayService {
	return &RelayService{
		visionAPI: visionAPI,
		safety:    safety,
		logger:    logger,
	}
}

// Validate checks the parts of req that must be present before the backend
// is contacted. Text fields are optional.
func Validate(req *domain.AnalysisRequest) error {
	if len(req.Image) == 0 {
		return &ValidationError{Message: MsgNoPhoto}
	}
	if !req.Mode.Valid() {
		return &ValidationError{Message: MsgInvalidMode}
	}
	return nil
}

// Analyze validates req, builds the mode's instruction and forwards it with
// the image to the vision backend. The backend's text is returned verbatim.
// There is no retry.
func (s *RelayService) Analyze(ctx context.Context, req *domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	analysisID := uuid.NewString()
	logger := s.logger.With("analysis_id", analysisID, "mode", string(req.Mode))

	instruction, err := prompt.Build(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	mimeType := vision.NormaliseMIME(req.MIMEType)
	logger.Info("vision analysis started", "mime_type", mimeType, "bytes", len(req.Image))

	result, err := s.visionAPI.Analyze(ctx, vision.Prompt{
		Instruction: instruction,
		Image:       req.Image,
		MIMEType:    mimeType,
		Safety:      s.safety,
	})
	if err != nil {
		logger.Error("vision analysis failed", "error", err)
		return nil, fmt.Errorf("failed to analyze image: %w", err)
	}

	logger.Info("vision analysis complete", "model", result.Model, "chars", len(result.RawResponse))
	return &domain.AnalysisResponse{Markdown: result.RawResponse}, nil
}
