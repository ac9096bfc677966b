package app

import (
	"context"
	"time"

	pkgcron "github.com/eyxpoliba/emotion-core/internal/pkg/cron"
	"github.com/eyxpoliba/emotion-core/internal/pkg/jwt"
	"github.com/eyxpoliba/emotion-core/internal/pkg/revocation"
	"go.uber.org/zap"
)

// registerCronJobs wires the scheduled background jobs.
//
// Revocation records only matter while the revoked token could still pass
// validation. Anything older than the longest TTL changes no decision, so a
// daily sweep keeps the table bounded.
func registerCronJobs(sched *pkgcron.Scheduler, store *revocation.GormStore, logger *zap.Logger) {
	cronLogger := logger.Named("cron")

	sched.Register(pkgcron.Job{
		Name:     "prune_revocations",
		Interval: 24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().Add(-jwt.RefreshTTL())
			deleted, err := store.Prune(ctx, cutoff)
			if err != nil {
				cronLogger.Warn("revocation prune failed", zap.Error(err))
				return err
			}
			cronLogger.Info("revocation prune done", zap.Int64("deleted", deleted))
			return nil
		},
	})
}
