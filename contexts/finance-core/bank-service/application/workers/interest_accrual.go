package workers

import (
	"context"
	"log/slog"
	"time"

	"statecraft/contexts/finance-core/bank-service/application"
)

// InterestAccrual is the periodic job that rolls daily interest forward on
// every deposit and active loan.
type InterestAccrual struct {
	Service application.Service
	Clock   func() time.Time
	Logger  *slog.Logger
}

func (w InterestAccrual) RunOnce(ctx context.Context) error {
	now := time.Now().UTC()
	if w.Clock != nil {
		now = w.Clock().UTC()
	}
	accrued, err := w.Service.AccrueInterest(ctx, now)
	if err != nil {
		if w.Logger != nil {
			w.Logger.Error("interest accrual run failed",
				"event", "bank_accrual_run_failed",
				"module", "finance-core/bank-service",
				"layer", "application/workers",
				"error", err.Error(),
			)
		}
		return err
	}
	if w.Logger != nil && accrued > 0 {
		w.Logger.Info("interest accrual run finished",
			"event", "bank_accrual_run_finished",
			"module", "finance-core/bank-service",
			"layer", "application/workers",
			"accounts", accrued,
		)
	}
	return nil
}

// Run loops RunOnce on the interval until the context ends.
func (w InterestAccrual) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = w.RunOnce(ctx)
		}
	}
}
