package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/llm"
)

// GenerationParams son los parametros de muestreo de una tarea.
type GenerationParams struct {
	MaxTokens   int
	Temperature float64
}

// Task describe una operacion de generacion: nombre, system prompt y parametros.
type Task struct {
	Name   string
	System string
	Params GenerationParams
}

var (
	ProfileReviewTask = Task{
		Name:   "analyze_profile",
		System: "You are an honest, upbeat dating-profile coach.",
		Params: GenerationParams{MaxTokens: 600, Temperature: 0.85},
	}
	BioOpenersTask = Task{
		Name:   "analyze_bio",
		System: "You are a witty dating assistant.",
		Params: GenerationParams{MaxTokens: 200, Temperature: 0.9},
	}
	ReplySuggestionsTask = Task{
		Name:   "suggest_reply",
		System: "You are a witty dating assistant.",
		Params: GenerationParams{MaxTokens: 200, Temperature: 0.9},
	}
	AskOutTask = Task{
		Name:   "ask_out",
		System: "You are a smooth, respectful dating assistant.",
		Params: GenerationParams{MaxTokens: 120, Temperature: 0.95},
	}
)

var errEmptyCompletion = errors.New("llm returned only whitespace")

// Generator es la capacidad compartida "prompt -> LLM -> texto recortado".
// No reintenta: cualquier falla se devuelve como ErrGeneration en el primer intento.
type Generator struct {
	client  llm.LLMClient
	timeout time.Duration
	logger  *zap.Logger
}

func NewGenerator(client llm.LLMClient, timeout time.Duration, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, timeout: timeout, logger: logger}
}

// Generate ejecuta la tarea con el prompt dado y devuelve el texto sin espacios sobrantes.
func (g *Generator) Generate(ctx context.Context, task Task, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	out, err := g.client.Generate(ctx, llm.Request{
		System:      task.System,
		Prompt:      prompt,
		MaxTokens:   task.Params.MaxTokens,
		Temperature: task.Params.Temperature,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = errors.Join(err, ctxErr)
		}
		return "", domain.NewStageError(domain.ErrGeneration, domain.StageGenerating, err)
	}

	text := strings.TrimSpace(out)
	if text == "" {
		return "", domain.NewStageError(domain.ErrGeneration, domain.StageGenerating, errEmptyCompletion)
	}
	g.logger.Debug("generation finished", zap.String("task", task.Name), zap.Int("chars", len(text)))
	return text, nil
}
