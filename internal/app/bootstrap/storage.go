// internal/app/bootstrap/storage.go
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// newStorageBackend builds the photo storage backend from config and
// returns it with the public base URL photos are served from.
func newStorageBackend(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (storage.Store, string, error) {
	switch appCfg.StorageType {
	case "local":
		store, err := storage.NewLocal(storage.LocalConfig{BasePath: appCfg.StorageLocalPath})
		if err != nil {
			return nil, "", fmt.Errorf("local storage init: %w", err)
		}
		logger.Info("using local photo storage",
			zap.String("path", appCfg.StorageLocalPath),
			zap.String("url", appCfg.StorageLocalURL))
		return store, strings.TrimSuffix(appCfg.StorageLocalURL, "/"), nil

	case "s3":
		store, err := storage.NewS3(ctx, storage.S3Config{
			Region: appCfg.StorageS3Region,
			Bucket: appCfg.StorageS3Bucket,
			Prefix: appCfg.StorageS3Prefix,
		})
		if err != nil {
			return nil, "", fmt.Errorf("s3 storage init: %w", err)
		}
		logger.Info("using S3 photo storage",
			zap.String("bucket", appCfg.StorageS3Bucket),
			zap.String("region", appCfg.StorageS3Region))
		return store, strings.TrimSuffix(appCfg.StorageCDNURL, "/"), nil

	default:
		return nil, "", fmt.Errorf("unknown storage_type %q", appCfg.StorageType)
	}
}
