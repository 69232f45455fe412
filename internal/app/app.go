// Package app arma el grafo de dependencias compartido por la API y el CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Neuralic/Tinder-AI/internal/config"
	"github.com/Neuralic/Tinder-AI/internal/imaging"
	"github.com/Neuralic/Tinder-AI/internal/llm"
	"github.com/Neuralic/Tinder-AI/internal/metrics"
	"github.com/Neuralic/Tinder-AI/internal/service"
	"github.com/Neuralic/Tinder-AI/internal/vision"
)

// Components son los servicios listos para usar.
type Components struct {
	Profiles *service.ProfileAnalysisService
	Advice   *service.AdviceService
	Metrics  *metrics.Recorder
	// LLM es el cliente generador crudo, para herramientas que evaluan respuestas.
	LLM llm.LLMClient

	closers []func() error
}

// Close libera clientes externos (gemini).
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
}

// Build construye clientes y servicios a partir de la configuracion.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	c := &Components{Metrics: metrics.NewRecorder()}

	llmClient, err := newLLMClient(ctx, cfg, logger, c)
	if err != nil {
		c.Close()
		return nil, err
	}

	extractor, err := newExtractor(cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	extractor = vision.NewPool(extractor, cfg.VisionMaxConcurrency, cfg.VisionTimeout)

	c.LLM = llmClient
	generator := service.NewGenerator(llmClient, cfg.LLMTimeout, logger)
	decoder := imaging.NewDecoder(cfg.ImageTmpDir, cfg.ImageMaxBytes).WithMaxPixels(cfg.ImageMaxPixels)

	c.Profiles = service.NewProfileAnalysisService(decoder, extractor, generator, logger, c.Metrics)
	c.Advice = service.NewAdviceService(generator, logger, c.Metrics)
	return c, nil
}

func newLLMClient(ctx context.Context, cfg *config.Config, logger *zap.Logger, c *Components) (llm.LLMClient, error) {
	if cfg.GenerationKey() == "" {
		logger.Warn("llm api key not configured, generation requests will fail", zap.String("provider", cfg.LLMProvider))
		return llm.NewDisabledClient("llm api key not configured"), nil
	}
	switch cfg.LLMProvider {
	case "openai":
		return llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger), nil
	case "gemini":
		g, err := llm.NewGeminiClient(ctx, cfg.GenerationKey(), cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		c.closers = append(c.closers, g.Close)
		return g, nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func newExtractor(cfg *config.Config, logger *zap.Logger) (vision.Extractor, error) {
	switch cfg.VisionProvider {
	case "deepface":
		return vision.NewDeepFaceExtractor(cfg.VisionBaseURL, vision.DeepFaceOptions{
			DetectorBackend:  cfg.VisionDetectorBackend,
			EnforceDetection: cfg.VisionEnforceDetection,
			SharedPath:       cfg.VisionSharedTmp,
			Timeout:          cfg.VisionTimeout,
		}, logger), nil
	case "openai":
		if cfg.LLMAPIKey == "" {
			logger.Warn("vision provider openai without LLM_API_KEY, extraction will fail")
		}
		return vision.NewOpenAIExtractor(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.VisionModel, cfg.VisionEnforceDetection, nil), nil
	default:
		return nil, fmt.Errorf("unknown VISION_PROVIDER %q", cfg.VisionProvider)
	}
}

