// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds whiteboard configuration loaded in LoadConfig.
//
// WAFFLE's CoreConfig covers ports, TLS, log level and env; everything here
// is specific to the whiteboard.
type AppConfig struct {
	// MongoDB: directory collections and, by default, board data.
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Sessions
	SessionKey    string
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration
	CSRFKey       string

	// Board storage: "mongo", "dynamodb" or "memory"
	StoreBackend       string
	DynamoRegion       string
	DynamoEndpoint     string // DynamoDB Local, blank for AWS
	DynamoBoardTable   string
	DynamoStaffTable   string
	DynamoHistoryTable string

	// Optional Redis staff cache; disabled when RedisAddr is blank.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	StaffCacheTTL time.Duration

	// Identity: "local" or "cognito"
	AuthProvider        string
	CognitoRegion       string
	CognitoClientID     string
	CognitoClientSecret string
	CognitoEndpoint     string

	// Google sign-in (optional)
	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string

	// Where administrators land instead of the wizard.
	AdminURL string

	// Bootstrap administrator, created or promoted on startup.
	AdminEmail    string
	AdminPassword string

	SeedSampleData bool
	SiteName       string

	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}
