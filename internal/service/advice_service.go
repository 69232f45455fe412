package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/metrics"
)

// AdviceService expone los endpoints de texto: openers para una bio,
// respuestas a un mensaje y una frase para proponer una cita.
// Ninguno depende del pipeline de imagen.
type AdviceService struct {
	generator *Generator
	logger    *zap.Logger
	metrics   *metrics.Recorder
	hook      StageHook
}

func NewAdviceService(generator *Generator, logger *zap.Logger, rec *metrics.Recorder) *AdviceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdviceService{generator: generator, logger: logger, metrics: rec}
}

func (s *AdviceService) WithStageHook(hook StageHook) *AdviceService {
	s.hook = hook
	return s
}

func (s *AdviceService) AnalyzeBio(ctx context.Context, req domain.BioRequest) (string, error) {
	return s.run(ctx, BioOpenersTask, "bio", req.Bio, func() string {
		return BuildBioPrompt(req.Bio)
	})
}

func (s *AdviceService) SuggestReply(ctx context.Context, req domain.ReplyRequest) (string, error) {
	return s.run(ctx, ReplySuggestionsTask, "message", req.Message, func() string {
		return BuildReplyPrompt(req.Message, req.Intent, req.Tone)
	})
}

func (s *AdviceService) AskOut(ctx context.Context, req domain.AskOutRequest) (string, error) {
	return s.run(ctx, AskOutTask, "chat context", req.Convo, func() string {
		return BuildAskOutPrompt(req.Convo, req.Tone)
	})
}

func (s *AdviceService) run(ctx context.Context, task Task, field, required string, build func() string) (string, error) {
	t := newStageTracker(ctx, task.Name, s.logger, s.metrics, s.hook)
	if strings.TrimSpace(required) == "" {
		return "", t.fail(domain.MissingInput(field))
	}

	t.enter(domain.StageSynthesizing)
	prompt := build()

	t.enter(domain.StageGenerating)
	out, err := s.generator.Generate(ctx, task, prompt)
	if err != nil {
		return "", t.fail(err)
	}
	t.done()
	return out, nil
}
