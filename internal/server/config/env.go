package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
	"github.com/joho/godotenv"
)

// parseEnv seeds the process environment from the dotenv file selected by
// -env (".env" by default; a missing file is fine) and copies recognised
// variables into config. Variables already present in the environment win
// over the file.
//
// Recognised variables:
//
//	PORT / HTTP_ADDR              listen address (PORT becomes ":PORT")
//	DATABASE_URL                  PostgreSQL DSN
//	JWT_ACCESS_SECRET             access token HMAC secret
//	JWT_REFRESH_SECRET            refresh token HMAC secret
//	JWT_ACCESS_TTL                access token lifetime ("15m")
//	JWT_REFRESH_TTL               refresh token lifetime ("7d")
//	ROTATE_REFRESH_TOKENS         rotate refresh tokens on use
//	BCRYPT_COST                   bcrypt work factor
//	NODE_ENV / APP_ENV            deployment environment
//	REDIS_ADDR / REDIS_PASSWORD   shared rate-limit store
//	RATE_LIMIT_ENABLED            toggle rate limiting
//	LOG_LEVEL / LOG_FORMAT        logger settings
func parseEnv(config *Config) {
	if err := godotenv.Load(flagx.EnvFileFlag()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := lookup("PORT"); ok {
		config.EndpointAddrHTTP = ":" + strings.TrimPrefix(v, ":")
	}
	setString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_URL")
	setString(&config.AccessTokenSecret, "JWT_ACCESS_SECRET")
	setString(&config.RefreshTokenSecret, "JWT_REFRESH_SECRET")

	if v, ok := lookup("JWT_ACCESS_TTL"); ok {
		config.AccessTokenValidityDuration = mustDuration("JWT_ACCESS_TTL", v)
	}
	if v, ok := lookup("JWT_REFRESH_TTL"); ok {
		config.RefreshTokenValidityDuration = mustDuration("JWT_REFRESH_TTL", v)
	}
	if v, ok := lookup("ROTATE_REFRESH_TOKENS"); ok {
		config.RotateRefreshTokens = mustBool("ROTATE_REFRESH_TOKENS", v)
	}
	if v, ok := lookup("BCRYPT_COST"); ok {
		config.BcryptCost = mustInt("BCRYPT_COST", v)
	}

	setString(&config.Environment, "NODE_ENV")
	setString(&config.Environment, "APP_ENV")

	setString(&config.RedisAddr, "REDIS_ADDR")
	setString(&config.RedisPassword, "REDIS_PASSWORD")
	if v, ok := lookup("RATE_LIMIT_ENABLED"); ok {
		config.RateLimitEnabled = mustBool("RATE_LIMIT_ENABLED", v)
	}

	setString(&config.LogLevel, "LOG_LEVEL")
	setString(&config.LogFormat, "LOG_FORMAT")
}

// lookup returns a trimmed, non-empty environment value.
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func mustInt(key, v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	return n
}

func mustBool(key, v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	return b
}

func mustDuration(key, v string) time.Duration {
	d, err := timex.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	return d
}
