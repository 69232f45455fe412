package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/metrics"
)

// StageHook recibe cada transicion de etapa.
type StageHook func(operation string, stage domain.Stage)

// stageTracker lleva la maquina de estados de una operacion:
// Validating -> ... -> Done, o Failed desde cualquier etapa.
type stageTracker struct {
	operation string
	stage     domain.Stage
	started   time.Time
	logger    *zap.Logger
	metrics   *metrics.Recorder
	hook      StageHook
}

func newStageTracker(ctx context.Context, operation string, logger *zap.Logger, rec *metrics.Recorder, hook StageHook) *stageTracker {
	l := logger.With(zap.String("operation", operation))
	if id := RequestIDFrom(ctx); id != "" {
		l = l.With(zap.String("request_id", id))
	}
	t := &stageTracker{
		operation: operation,
		stage:     domain.StageValidating,
		started:   time.Now(),
		logger:    l,
		metrics:   rec,
		hook:      hook,
	}
	t.notify()
	return t
}

func (t *stageTracker) enter(next domain.Stage) {
	t.observe()
	t.logger.Debug("stage transition", zap.String("from", string(t.stage)), zap.String("to", string(next)))
	t.stage = next
	t.started = time.Now()
	t.notify()
}

func (t *stageTracker) done() {
	t.enter(domain.StageDone)
	t.metrics.Completed(t.operation)
}

func (t *stageTracker) fail(err error) error {
	t.observe()
	kind := domain.KindName(err)
	t.metrics.Failure(t.operation, kind)
	t.logger.Warn("operation failed",
		zap.String("stage", string(t.stage)),
		zap.String("kind", kind),
		zap.Error(err),
	)
	t.stage = domain.StageFailed
	t.notify()
	return err
}

func (t *stageTracker) observe() {
	t.metrics.ObserveStage(t.operation, string(t.stage), time.Since(t.started))
}

func (t *stageTracker) notify() {
	if t.hook != nil {
		t.hook(t.operation, t.stage)
	}
}
