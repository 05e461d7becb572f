package usecase

import (
	"context"
	"errors"

	"roleready/internal/pkg/workerpool"

	"github.com/google/uuid"
)

type BulkFailure struct {
	UserID uuid.UUID
	Err    error
}

type BulkRecalculation struct {
	Total     int
	Succeeded int
	Skipped   int
	Failures  []BulkFailure
}

// RecalculateAll runs AdminRecalculate for every user with an active target
// role. Users whose role has no benchmarks or who have no eligible skills
// are counted as skipped.
func (u *Readiness) RecalculateAll(ctx context.Context, workers, ratePerSecond int) (BulkRecalculation, error) {
	userIDs, err := u.targets.ActiveUserIDs(ctx)
	if err != nil {
		u.logger.Printf("[Readiness] list active targets failed err=%v", err)
		return BulkRecalculation{}, ErrInternal
	}

	pool := workerpool.New(workers, len(userIDs))
	pool.SetRateLimit(ratePerSecond)
	results := pool.Run(ctx)
	for _, id := range userIDs {
		id := id
		pool.Submit(id.String(), func(ctx context.Context) error {
			_, err := u.AdminRecalculate(ctx, id)
			return err
		})
	}
	pool.Close()

	out := BulkRecalculation{Total: len(userIDs)}
	for r := range results {
		var edge *EdgeCaseError
		switch {
		case r.Err == nil:
			out.Succeeded++
		case errors.As(r.Err, &edge):
			out.Skipped++
		default:
			id, _ := uuid.Parse(r.Key)
			out.Failures = append(out.Failures, BulkFailure{UserID: id, Err: r.Err})
		}
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	u.logger.Printf("[Readiness] bulk recalculation total=%d succeeded=%d skipped=%d failed=%d",
		out.Total, out.Succeeded, out.Skipped, len(out.Failures))
	return out, nil
}
