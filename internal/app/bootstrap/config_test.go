package bootstrap

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "rishtahub_test",
		SessionKey:       "test-session-key",
		StorageType:      "local",
		StorageLocalPath: "./uploads/photos",
		StorageLocalURL:  "/media",
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig() error: %v", err)
	}
}

func TestValidateConfig_BadMongoURI(t *testing.T) {
	cfg := validAppConfig()
	cfg.MongoURI = "not-a-mongo-uri"

	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for invalid MongoDB URI")
	}
}

func TestValidateConfig_UnknownStorageType(t *testing.T) {
	cfg := validAppConfig()
	cfg.StorageType = "ftp"

	err := ValidateConfig(nil, cfg, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for unknown storage type")
	}
	if !strings.Contains(err.Error(), "storage_type") {
		t.Errorf("error should name storage_type, got: %v", err)
	}
}

func TestValidateConfig_S3RequiresBucket(t *testing.T) {
	cfg := validAppConfig()
	cfg.StorageType = "s3"
	cfg.StorageS3Region = "eu-west-1"

	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for s3 storage without a bucket")
	}
}

func TestValidateConfig_GoogleHalfConfigured(t *testing.T) {
	cfg := validAppConfig()
	cfg.GoogleClientID = "client-id-only"

	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error when only one Google OAuth credential is set")
	}
}
