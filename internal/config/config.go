package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets for the token signer and the SMS
// gateway are never hardcoded; they must be supplied by the environment.
type Config struct {
	Env      string // application environment (e.g. "dev", "prod")
	Port     string // HTTP port to listen on
	LogLevel string // zerolog level name (debug, info, warn, ...)

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	TokenSecret string        // secret used to sign bearer tokens
	OTPTTL      time.Duration // validity window of an issued OTP

	SMS SMSConfig // SMS gateway settings

	RabbitURL            string        // AMQP URL for auth events; empty disables them
	EventTimeout         time.Duration // bound on one event publish, dial included
	AuditConsumerEnabled bool          // run the audit log consumer in-process
	AuditLogPath         string        // file the audit consumer appends to
}

// SMSConfig holds the MsgClub gateway settings.
type SMSConfig struct {
	Scheme   string
	Host     string
	AuthKey  string
	SenderID string
	RouteID  string
	Timeout  time.Duration
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is loaded first when present.
// Required variables are enforced by must() and missing values cause the
// program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // optional
	return Config{
		Env:      must("APP_ENV"),
		Port:     must("APP_PORT"),
		LogLevel: envStr("LOG_LEVEL", "info"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		TokenSecret: must("ACCESS_TOKEN_SECRET"),
		OTPTTL:      envDur("OTP_TTL", 10*time.Minute),

		SMS: SMSConfig{
			Scheme:   envStr("MSGCLUB_SCHEME", "http"),
			Host:     envStr("MSGCLUB_HOST", "msg.msgclub.net"),
			AuthKey:  must("MSGCLUB_AUTH_KEY"),
			SenderID: must("MSGCLUB_SENDER_ID"),
			RouteID:  envStr("MSGCLUB_ROUTE_ID", "8"),
			Timeout:  envDur("SMS_TIMEOUT", 10*time.Second),
		},

		RabbitURL:            rabbitURL(),
		EventTimeout:         envDur("EVENT_PUBLISH_TIMEOUT", 3*time.Second),
		AuditConsumerEnabled: envBool("AUDIT_CONSUMER_ENABLED", false),
		AuditLogPath:         envStr("AUDIT_LOG_PATH", "logs/auth.log"),
	}
}

// rabbitURL resolves the broker URL, accepting the AMQP_URL alias.  There is
// no default: without either variable auth events are not published.
func rabbitURL() string {
	return envStr("RABBITMQ_URL", os.Getenv("AMQP_URL"))
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatal().Str("key", key).Msg("missing required env var")
	}
	return v
}
