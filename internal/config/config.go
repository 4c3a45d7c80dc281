package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Surface names accepted by SURFACE.
const (
	SurfaceLog       = "log"
	SurfaceSocket    = "socket"
	SurfaceWebsocket = "websocket"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string
	LogFile  string

	// Deep links
	LinkScheme string
	LinkHost   string
	CallScreen string
	HomeScreen string

	// Channels
	ChannelsSource           string // local path or s3://bucket/key, empty to skip
	ChannelCatalog           bool   // also load channels from DynamoDB
	FallbackToDefaultChannel bool

	// Dispatch
	Surface             string
	NotifySocketPath    string
	NotifySocketTimeout time.Duration
	IDLimit             int64 // 0 means unbounded

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	SNSRegion      string
	ActionTopicARN string // empty disables action telemetry

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	AllowedOrigins []string // CORS allowed origins
	TrustProxy     bool     // take the client address from X-Forwarded-For / X-Real-Ip
}

// DynamoTables holds the DynamoDB table names.
type DynamoTables struct {
	Channels string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		LinkScheme: getEnv("LINK_SCHEME", "myapp"),
		LinkHost:   getEnv("LINK_HOST", "app"),
		CallScreen: getEnv("CALL_SCREEN", "CallScreen"),
		HomeScreen: getEnv("HOME_SCREEN", "HomeScreen"),

		ChannelsSource:           getEnv("CHANNELS_SOURCE", ""),
		ChannelCatalog:           getEnvBool("CHANNEL_CATALOG", false),
		FallbackToDefaultChannel: getEnvBool("FALLBACK_TO_DEFAULT_CHANNEL", false),

		Surface:             strings.ToLower(getEnv("SURFACE", SurfaceLog)),
		NotifySocketPath:    getEnv("NOTIFY_SOCKET_PATH", "/tmp/notifyd.sock"),
		NotifySocketTimeout: getEnvDuration("NOTIFY_SOCKET_TIMEOUT", 5*time.Second),
		IDLimit:             int64(getEnvInt("ID_LIMIT", 0)),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Channels: getEnv("DYNAMO_TABLE_CHANNELS", "notification_channels"),
		},
		SNSRegion:      getEnv("SNS_REGION", "us-east-1"),
		ActionTopicARN: getEnv("ACTION_TOPIC_ARN", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		TrustProxy:     getEnvBool("TRUST_PROXY", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
