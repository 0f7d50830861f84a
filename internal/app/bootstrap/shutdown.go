// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down the background worker and DB connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if paidReconciler != nil {
		logger.Info("stopping paid reconciliation sweep")
		paidReconciler.Stop()
	}

	if deps.RishtaHubMongoClient != nil {
		logger.Info("disconnecting RishtaHub MongoDB client")
		if err := deps.RishtaHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
