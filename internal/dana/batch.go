package dana

import (
	"context"

	"dana-report-card/internal/model"
	"dana-report-card/internal/worker"
	"dana-report-card/pkg/errors"
)

// ReportCardResult pairs an impl path with its report card or error.
type ReportCardResult struct {
	ImplPath   string
	ReportCard *model.ReportCard
	Err        error
}

// GetReportCards fetches each impl path concurrently. Results keep the
// order of implPaths.
func (c *Client) GetReportCards(ctx context.Context, implPaths []string) []ReportCardResult {
	results := make([]ReportCardResult, len(implPaths))

	pool := worker.NewWorkerPool(c.concurrency)
	pool.Start(ctx)

	for i, implPath := range implPaths {
		i, implPath := i, implPath
		results[i].ImplPath = implPath

		err := pool.Submit(ctx, func(ctx context.Context) error {
			rc, err := c.GetReportCard(ctx, implPath)
			results[i].ReportCard = rc
			results[i].Err = err
			return err
		})
		if err != nil {
			results[i].Err = errors.NewAPIError(ReportCardKey, 0, err.Error(), err)
		}
	}

	pool.Stop()
	return results
}
