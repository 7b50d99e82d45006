package pipeline

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/hoangvu/gesture-crop/internal/models"
)

// RunBatch executes several gestures against the same encoded image, one
// artifact per gesture, on a bounded worker pool. Results and errors are
// positional: exactly one of results[i], errs[i] is set for each request.
// Each run decodes its own buffer, so workers share nothing mutable.
func (p *Pipeline) RunBatch(ctx context.Context, reqs []Request) ([]*models.CroppedArtifact, []error) {
	results := make([]*models.CroppedArtifact, len(reqs))
	errs := make([]error, len(reqs))

	pooler := pool.New().WithMaxGoroutines(runtime.NumCPU())
	for i := range reqs {
		i := i // pre-1.22 loop variable capture
		pooler.Go(func() {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = p.Run(reqs[i])
		})
	}
	pooler.Wait()

	return results, errs
}
