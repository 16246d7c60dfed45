package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"ImgOSINT/pkg/models"
)

// BatchResult is the outcome for one target of a batch.
type BatchResult struct {
	Target string
	Report *models.AnalysisReport
	Err    error
}

// AnalyzeBatch analyzes every target with at most workers in flight. tmpl
// supplies the credentials and output location; every target gets its own
// output path. onDone, if set, is called once per target as it finishes,
// never concurrently. Results are returned in target order.
func (c *Coordinator) AnalyzeBatch(ctx context.Context, targets []string, tmpl Request, workers int, onDone func(BatchResult)) []BatchResult {
	if workers < 1 {
		workers = 1
	}
	results := make([]BatchResult, len(targets))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, target := range targets {
		g.Go(func() error {
			req := tmpl
			req.Target = target
			req.UniqueOutput = true

			report, err := c.Analyze(gCtx, req, nil)
			res := BatchResult{Target: target, Report: report, Err: err}
			if err != nil {
				c.logger.Warn("analysis failed", "target", target, "error", err)
			}

			mu.Lock()
			results[i] = res
			if onDone != nil {
				onDone(res)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}
