package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfig_Defaults(t *testing.T) {
	cfg := LoadRateLimitConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5, cfg.Capacity)
	assert.Equal(t, 30*time.Second, cfg.RefillInterval)
	assert.Equal(t, "ip_route", cfg.KeyStrategy)
	assert.Equal(t, "communet:rl", cfg.Prefix)
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "10s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", " get, head ,")
	t.Setenv("CACHE_TTL", "bogus")

	cfg := LoadCacheConfig()
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "250ms")

	assert.False(t, envBool("X_BOOL", true))
	assert.True(t, envBool("X_UNSET_BOOL", true))
	assert.Equal(t, 7, envInt("X_INT", 7))
	assert.Equal(t, 250*time.Millisecond, envDur("X_DUR", time.Second))
	assert.Equal(t, "d", envStr("X_UNSET_STR", "d"))
}

func TestLoad(t *testing.T) {
	for k, v := range map[string]string{
		"APP_ENV": "test", "APP_PORT": "8080",
		"DB_USER": "app", "DB_HOST": "localhost", "DB_PORT": "3306", "DB_NAME": "communet",
		"ACCESS_TOKEN_SECRET": "secret", "MSGCLUB_AUTH_KEY": "key", "MSGCLUB_SENDER_ID": "AASMA",
		"RABBITMQ_URL": "", "AMQP_URL": "amqp://broker/",
	} {
		t.Setenv(k, v)
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, "msg.msgclub.net", cfg.SMS.Host)
	assert.Equal(t, "8", cfg.SMS.RouteID)
	assert.Equal(t, 10*time.Second, cfg.SMS.Timeout)
	assert.Equal(t, "amqp://broker/", cfg.RabbitURL)
	assert.False(t, cfg.AuditConsumerEnabled)
	assert.Equal(t, 3*time.Second, cfg.EventTimeout)
}

func TestLoad_EventsOffWithoutBrokerURL(t *testing.T) {
	for k, v := range map[string]string{
		"APP_ENV": "test", "APP_PORT": "8080",
		"DB_USER": "app", "DB_HOST": "localhost", "DB_PORT": "3306", "DB_NAME": "communet",
		"ACCESS_TOKEN_SECRET": "secret", "MSGCLUB_AUTH_KEY": "key", "MSGCLUB_SENDER_ID": "AASMA",
		"RABBITMQ_URL": "", "AMQP_URL": "",
	} {
		t.Setenv(k, v)
	}

	assert.Empty(t, Load().RabbitURL)

	t.Setenv("RABBITMQ_URL", "amqp://primary/")
	t.Setenv("AMQP_URL", "amqp://alias/")
	assert.Equal(t, "amqp://primary/", Load().RabbitURL)
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_TLS", "true")

	opts := redisOptions()
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.NotNil(t, opts.TLSConfig)

	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6379")
	assert.Equal(t, "redis.internal:6379", redisOptions().Addr)
}
