package vision

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/imaging"
)

// Pool limita cuantas inferencias corren a la vez; el modelo facial es pesado.
type Pool struct {
	inner   Extractor
	sem     *semaphore.Weighted
	timeout time.Duration
}

func NewPool(inner Extractor, size int, timeout time.Duration) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		inner:   inner,
		sem:     semaphore.NewWeighted(int64(size)),
		timeout: timeout,
	}
}

func (p *Pool) Extract(ctx context.Context, art *imaging.Artifact) (domain.AttributeRecord, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return domain.AttributeRecord{}, fmt.Errorf("wait for vision worker: %w", err)
	}
	defer p.sem.Release(1)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.inner.Extract(ctx, art)
}
