package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/imaging"
	"github.com/Neuralic/Tinder-AI/internal/metrics"
	"github.com/Neuralic/Tinder-AI/internal/vision"
)

var errInternal = errors.New("internal error")

// ImageDecoder convierte el payload de transporte en un artefacto verificado.
type ImageDecoder interface {
	Decode(encoded string) (*imaging.Artifact, error)
}

// ProfileAnalysisService orquesta decode -> extract -> synthesize -> generate.
// Cada etapa corre a lo sumo una vez y en orden; una falla corta el resto.
type ProfileAnalysisService struct {
	decoder   ImageDecoder
	extractor vision.Extractor
	builder   ProfilePromptBuilder
	generator *Generator
	logger    *zap.Logger
	metrics   *metrics.Recorder
	hook      StageHook
}

func NewProfileAnalysisService(
	decoder ImageDecoder,
	extractor vision.Extractor,
	generator *Generator,
	logger *zap.Logger,
	rec *metrics.Recorder,
) *ProfileAnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileAnalysisService{
		decoder:   decoder,
		extractor: extractor,
		generator: generator,
		logger:    logger,
		metrics:   rec,
	}
}

// WithStageHook registra un observador de transiciones.
func (s *ProfileAnalysisService) WithStageHook(hook StageHook) *ProfileAnalysisService {
	s.hook = hook
	return s
}

// Run ejecuta el pipeline completo. El artefacto se libera en toda salida, y un
// panic dentro de una etapa se convierte en error en vez de propagarse.
func (s *ProfileAnalysisService) Run(ctx context.Context, req domain.ProfileRequest) (review domain.GeneratedReview, err error) {
	t := newStageTracker(ctx, ProfileReviewTask.Name, s.logger, s.metrics, s.hook)
	defer func() {
		if r := recover(); r != nil {
			review = domain.GeneratedReview{}
			err = t.fail(domain.NewStageError(errInternal, t.stage, fmt.Errorf("panic: %v", r)))
		}
	}()

	if strings.TrimSpace(req.Image) == "" {
		return domain.GeneratedReview{}, t.fail(domain.MissingInput("image"))
	}

	t.enter(domain.StageDecoding)
	art, err := s.decoder.Decode(req.Image)
	if err != nil {
		return domain.GeneratedReview{}, t.fail(domain.NewStageError(domain.ErrDecode, domain.StageDecoding, err))
	}
	defer func() {
		if cerr := art.Close(); cerr != nil {
			s.logger.Warn("artifact release failed", zap.String("path", art.Path), zap.Error(cerr))
		}
	}()

	t.enter(domain.StageExtracting)
	attrs, err := s.extractor.Extract(ctx, art)
	if err != nil {
		return domain.GeneratedReview{}, t.fail(domain.NewStageError(domain.ErrInference, domain.StageExtracting, err))
	}
	t.logger.Debug("attributes extracted",
		zap.Float64("estimated_age", attrs.EstimatedAge),
		zap.String("emotion", attrs.DominantEmotion),
		zap.Float64("smile_score", attrs.SmileScore),
	)

	t.enter(domain.StageSynthesizing)
	prompt := s.builder.BuildProfilePrompt(attrs, req)

	t.enter(domain.StageGenerating)
	feedback, err := s.generator.Generate(ctx, ProfileReviewTask, prompt)
	if err != nil {
		return domain.GeneratedReview{}, t.fail(err)
	}

	t.done()
	return domain.GeneratedReview{Feedback: feedback}, nil
}

// Respond envuelve Run en la forma uniforme {feedback} / {error}.
func (s *ProfileAnalysisService) Respond(ctx context.Context, req domain.ProfileRequest) domain.ProfileResponse {
	review, err := s.Run(ctx, req)
	if err != nil {
		return domain.ProfileResponse{Error: err.Error()}
	}
	return domain.ProfileResponse{Feedback: review.Feedback}
}
