package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Realtime RealtimeConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName              string
	Environment          string
	HTTPPort             string
	RealtimePort         string
	AllowRecruiterSignup bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RealtimeConfig struct {
	SendBuffer   int
	WriteTimeout time.Duration
	PongTimeout  time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads the full configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win.
func Load() (Config, error) {
	_ = godotenv.Load()

	l := &loader{}
	cfg := Config{
		App:      l.app(),
		Database: l.database(),
		Redis:    l.redis(),
		JWT:      l.jwt(),
		Realtime: l.realtime(),
		Log:      l.log(),
	}
	if err := l.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDatabase reads only the database and log sections, for maintenance
// commands that never serve traffic.
func LoadDatabase() (Config, error) {
	_ = godotenv.Load()

	l := &loader{}
	cfg := Config{
		Database: l.database(),
		Log:      l.log(),
	}
	if err := l.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type loader struct {
	missing []string
	invalid []string
}

func (l *loader) req(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		l.missing = append(l.missing, key)
	}
	return v
}

func (l *loader) opt(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func (l *loader) optDefault(key, def string) string {
	if v := l.opt(key); v != "" {
		return v
	}
	return def
}

func (l *loader) optInt(key string, def int) int {
	raw := l.opt(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		l.invalid = append(l.invalid, key)
		return def
	}
	return v
}

func (l *loader) optDuration(key string, def time.Duration) time.Duration {
	raw := l.opt(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		l.invalid = append(l.invalid, key)
		return def
	}
	return v
}

func (l *loader) optBool(key string) bool {
	v, err := strconv.ParseBool(l.opt(key))
	return err == nil && v
}

func (l *loader) err() error {
	if len(l.missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(l.missing, ", "))
	}
	if len(l.invalid) > 0 {
		return fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(l.invalid, ", "))
	}
	return nil
}

func (l *loader) app() AppConfig {
	return AppConfig{
		AppName:              l.req("APP_NAME"),
		Environment:          l.req("APP_ENV"),
		HTTPPort:             l.req("HTTP_PORT"),
		RealtimePort:         l.optDefault("REALTIME_PORT", "8081"),
		AllowRecruiterSignup: l.optBool("ALLOW_RECRUITER_SIGNUP"),
	}
}

func (l *loader) database() DatabaseConfig {
	return DatabaseConfig{
		DBHost:                l.req("DB_HOST"),
		DBPort:                l.optDefault("DB_PORT", "5432"),
		DBName:                l.req("DB_NAME"),
		DBUser:                l.req("DB_USER"),
		DBPassword:            l.opt("DB_PASSWORD"),
		DBSSLMode:             l.optDefault("DB_SSL_MODE", "disable"),
		ConnectTimeout:        l.optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(l.optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(l.optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   l.optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   l.optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: l.optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}
}

func (l *loader) redis() RedisConfig {
	return RedisConfig{
		Host:     l.optDefault("REDIS_HOST", "localhost"),
		Port:     l.optDefault("REDIS_PORT", "6379"),
		Password: l.opt("REDIS_PASSWORD"),
		DB:       l.optInt("REDIS_DB", 0),
		TTL:      l.optDuration("REDIS_TTL", 10*time.Minute),
	}
}

func (l *loader) jwt() JWTConfig {
	return JWTConfig{
		AccessSecret:     l.req("JWT_ACCESS_SECRET"),
		RefreshSecret:    l.req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  l.optDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: l.optDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}
}

func (l *loader) realtime() RealtimeConfig {
	return RealtimeConfig{
		SendBuffer:   l.optInt("REALTIME_SEND_BUFFER", 64),
		WriteTimeout: l.optDuration("REALTIME_WRITE_TIMEOUT", 10*time.Second),
		PongTimeout:  l.optDuration("REALTIME_PONG_TIMEOUT", 60*time.Second),
	}
}

func (l *loader) log() LogConfig {
	return LogConfig{
		Level:  l.optDefault("LOG_LEVEL", "info"),
		Format: l.optDefault("LOG_FORMAT", "text"),
	}
}
