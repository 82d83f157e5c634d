// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// Board store backends.
const (
	backendMongo  = "mongo"
	backendDynamo = "dynamodb"
	backendMemory = "memory"
)

// Identity providers.
const (
	providerLocal   = "local"
	providerCognito = "cognito"
)

// appConfigKeys are loaded through WAFFLE's config layer:
//   - config files: mongo_uri, store_backend, ...
//   - environment: WHITEBOARD_MONGO_URI, WHITEBOARD_STORE_BACKEND, ...
//   - flags: --mongo_uri, --store_backend, ...
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "anesthesia_whiteboard", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "whiteboard-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Session lifetime"},
	{Name: "csrf_key", Default: "dev-only-csrf-key-0123456789abcdef", Desc: "CSRF authentication key (32 bytes)"},

	// Board storage
	{Name: "store_backend", Default: backendMongo, Desc: "Board store: 'mongo', 'dynamodb' or 'memory'"},
	{Name: "dynamodb_region", Default: "us-east-1", Desc: "AWS region for DynamoDB"},
	{Name: "dynamodb_endpoint", Default: "", Desc: "DynamoDB endpoint override (DynamoDB Local)"},
	{Name: "dynamodb_board_table", Default: "Whiteboard", Desc: "DynamoDB board table"},
	{Name: "dynamodb_staff_table", Default: "Staff", Desc: "DynamoDB staff table"},
	{Name: "dynamodb_history_table", Default: "RoomAssignments", Desc: "DynamoDB assignment history table"},

	// Staff cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the staff cache (blank disables)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "staff_cache_ttl", Default: "30s", Desc: "Staff cache TTL"},

	// Identity
	{Name: "auth_provider", Default: providerLocal, Desc: "Password check: 'local' or 'cognito'"},
	{Name: "cognito_region", Default: "us-east-1", Desc: "Cognito user pool region"},
	{Name: "cognito_client_id", Default: "", Desc: "Cognito app client ID"},
	{Name: "cognito_client_secret", Default: "", Desc: "Cognito app client secret"},
	{Name: "cognito_endpoint", Default: "", Desc: "Cognito endpoint override"},

	// Google OAuth
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "base_url", Default: "http://localhost:8080", Desc: "External base URL (OAuth callback)"},

	{Name: "admin_url", Default: "/admin", Desc: "Where administrators land after sign-in"},
	{Name: "admin_email", Default: "", Desc: "Bootstrap administrator email (created/promoted on startup)"},
	{Name: "admin_password", Default: "", Desc: "Bootstrap administrator password"},

	{Name: "seed_sample_data", Default: false, Desc: "Seed sample divisions, hospitals, staff and rooms"},
	{Name: "site_name", Default: "Anesthesia Whiteboard", Desc: "Site name shown in page headers"},

	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-record store calls"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for board assembly and mutations"},
}

// LoadConfig loads WAFFLE core config and the whiteboard app config.
// Precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "WHITEBOARD", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 12*time.Hour),
		CSRFKey:       appValues.String("csrf_key"),

		StoreBackend:       appValues.String("store_backend"),
		DynamoRegion:       appValues.String("dynamodb_region"),
		DynamoEndpoint:     appValues.String("dynamodb_endpoint"),
		DynamoBoardTable:   appValues.String("dynamodb_board_table"),
		DynamoStaffTable:   appValues.String("dynamodb_staff_table"),
		DynamoHistoryTable: appValues.String("dynamodb_history_table"),

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),
		StaffCacheTTL: appValues.Duration("staff_cache_ttl", 30*time.Second),

		AuthProvider:        appValues.String("auth_provider"),
		CognitoRegion:       appValues.String("cognito_region"),
		CognitoClientID:     appValues.String("cognito_client_id"),
		CognitoClientSecret: appValues.String("cognito_client_secret"),
		CognitoEndpoint:     appValues.String("cognito_endpoint"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),
		BaseURL:            appValues.String("base_url"),

		AdminURL:      appValues.String("admin_url"),
		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),

		SeedSampleData: appValues.Bool("seed_sample_data"),
		SiteName:       appValues.String("site_name"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configurations that cannot start: a malformed Mongo
// URI, an unknown backend or provider, or a provider missing its settings.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(appCfg)
}

func validateApp(appCfg AppConfig) error {
	switch appCfg.StoreBackend {
	case backendMongo, backendMemory:
	case backendDynamo:
		if appCfg.DynamoRegion == "" {
			return errors.New("store_backend dynamodb requires dynamodb_region")
		}
	default:
		return fmt.Errorf("unknown store_backend %q (want mongo, dynamodb or memory)", appCfg.StoreBackend)
	}

	switch appCfg.AuthProvider {
	case providerLocal:
	case providerCognito:
		if appCfg.CognitoClientID == "" {
			return errors.New("auth_provider cognito requires cognito_client_id")
		}
	default:
		return fmt.Errorf("unknown auth_provider %q (want local or cognito)", appCfg.AuthProvider)
	}

	if appCfg.AdminEmail != "" && appCfg.AdminPassword == "" {
		return errors.New("admin_email requires admin_password")
	}
	return nil
}
