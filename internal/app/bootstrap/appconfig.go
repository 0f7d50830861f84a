// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level and format, CORS, and request body limits.
// AppConfig is where everything specific to RishtaHub lives: the MongoDB
// connection, session cookies, photo storage, Google sign-in, and the
// audit/reconciliation knobs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: rishtahub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Photo storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads/photos")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/media")

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region string // AWS region
	StorageS3Bucket string // S3 bucket name
	StorageS3Prefix string // Key prefix (e.g., "photos/")
	StorageCDNURL   string // Public base URL for stored photos when using S3

	// Google OAuth configuration
	GoogleClientID     string // Google OAuth2 client ID
	GoogleClientSecret string // Google OAuth2 client secret

	// Base URL for OAuth callbacks
	BaseURL string // e.g., "https://rishtahub.pk" or "http://localhost:3000"

	// Audit logging settings, each "all", "db", "log", or "off"
	AuditLogAuth       string
	AuditLogModeration string
	AuditLogPayment    string

	// Paid-flag reconciliation sweep schedule (cron spec)
	PaidReconcileSchedule string
}
