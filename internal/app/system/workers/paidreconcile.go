// internal/app/system/workers/paidreconcile.go
package workers

import (
	"context"
	"time"

	payments "github.com/dalemusser/rishtahub/internal/app/store/payments"
	users "github.com/dalemusser/rishtahub/internal/app/store/users"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// EnsurePaid sets the user's paid flag when they have at least one
// completed payment. Idempotent; called inline after verification and
// by the reconciliation sweep.
func EnsurePaid(ctx context.Context, paymentStore *payments.Store, userStore *users.Store, userID primitive.ObjectID) error {
	has, err := paymentStore.HasCompleted(ctx, userID)
	if err != nil {
		return err
	}
	if !has {
		return nil
	}
	return userStore.MarkPaid(ctx, userID)
}

// PaidReconciler periodically repairs paid flags that were missed when
// a verification succeeded but the user update failed.
type PaidReconciler struct {
	paymentStore *payments.Store
	userStore    *users.Store
	logger       *zap.Logger
	schedule     string
	cron         *cron.Cron
}

// NewPaidReconciler creates a reconciler with the given cron schedule
// (for example "@every 15m").
func NewPaidReconciler(paymentStore *payments.Store, userStore *users.Store, logger *zap.Logger, schedule string) *PaidReconciler {
	return &PaidReconciler{
		paymentStore: paymentStore,
		userStore:    userStore,
		logger:       logger,
		schedule:     schedule,
	}
}

// Start schedules the sweep. Returns an error if the schedule
// expression is invalid.
func (w *PaidReconciler) Start() error {
	c := cron.New()
	_, err := c.AddFunc(w.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		w.RunOnce(ctx)
	})
	if err != nil {
		return err
	}
	w.cron = c
	c.Start()
	w.logger.Info("paid reconciliation worker started", zap.String("schedule", w.schedule))
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (w *PaidReconciler) Stop() {
	if w.cron == nil {
		return
	}
	stopCtx := w.cron.Stop()
	<-stopCtx.Done()
	w.logger.Info("paid reconciliation worker stopped")
}

// RunOnce performs a single sweep over unpaid active users.
func (w *PaidReconciler) RunOnce(ctx context.Context) {
	ids, err := w.userStore.ListUnpaidIDs(ctx)
	if err != nil {
		w.logger.Error("paid reconciliation: listing unpaid users failed", zap.Error(err))
		return
	}

	repaired := 0
	for _, id := range ids {
		has, err := w.paymentStore.HasCompleted(ctx, id)
		if err != nil {
			w.logger.Error("paid reconciliation: payment lookup failed",
				zap.Error(err), zap.String("user_id", id.Hex()))
			continue
		}
		if !has {
			continue
		}
		if err := w.userStore.MarkPaid(ctx, id); err != nil {
			w.logger.Error("paid reconciliation: marking user paid failed",
				zap.Error(err), zap.String("user_id", id.Hex()))
			continue
		}
		repaired++
		w.logger.Info("paid reconciliation: repaired paid flag", zap.String("user_id", id.Hex()))
	}

	if repaired > 0 {
		w.logger.Info("paid reconciliation sweep finished",
			zap.Int("checked", len(ids)), zap.Int("repaired", repaired))
	}
}
