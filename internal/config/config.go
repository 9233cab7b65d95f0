package config

import (
	"crypto"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/golang-jwt/jwt/v4"
)

const jwtSigningAlgorithmEd25519 = "EdDSA"

// ServerCfg is http and grpc servers config
type ServerCfg struct {
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"3000"`
	GrpcPort        int           `env:"GRPC_PORT" envDefault:"3010"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	FilesDir        string        `env:"FILES_DIR" envDefault:"./files"`
}

// LogCfg is logger config
type LogCfg struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// StorageCfg is primary storage config
type StorageCfg struct {
	Driver        string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	DSN           string `env:"STORAGE_DSN" envDefault:"crm.db"`
	CustomerStore string `env:"CUSTOMER_STORE" envDefault:"sql"`
}

// MongoCfg is mongo config, used only when customers are kept in mongo
type MongoCfg struct {
	URI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017/?maxPoolSize=100"`
	Database string `env:"MONGO_DB" envDefault:"crm"`
}

// RedisCfg is redis config
type RedisCfg struct {
	Addr     string `env:"REDIS_ADDR" envDefault:""`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// CalendarCfg is calendar used for reminders and dashboard
type CalendarCfg struct {
	TimeZone string `env:"CALENDAR_TIME_ZONE" envDefault:"Asia/Ho_Chi_Minh"`
	Location *time.Location
}

// JwtCfg is jwt config
type JwtCfg struct {
	Issuer        string        `env:"AUTH_JWT_ISSUER" envDefault:"insurance-crm-api"`
	TimeToLive    time.Duration `env:"AUTH_JWT_TIME_TO_LIVE" envDefault:"10m"`
	SigningMethod jwt.SigningMethod
	PrivateKey    crypto.PrivateKey
	PublicKey     crypto.PublicKey
}

// RefreshTokenCfg is refresh token config
type RefreshTokenCfg struct {
	MaxCount   int           `env:"AUTH_REFRESH_TOKEN_MAX_COUNT" envDefault:"5"`
	TimeToLive time.Duration `env:"AUTH_REFRESH_TOKEN_TIME_TO_LIVE" envDefault:"720h"`
	CookieName string        `env:"AUTH_REFRESH_TOKEN_COOKIE_NAME" envDefault:"refresh-token"`
}

// AuthCfg is authentication config
type AuthCfg struct {
	HTTPS           bool `env:"AUTH_HTTPS" envDefault:"false"`
	JwtCfg          JwtCfg
	RefreshTokenCfg RefreshTokenCfg
}

// AdminCfg is bootstrap administrator account
type AdminCfg struct {
	Email    string `env:"ADMIN_EMAIL" envDefault:"admin@insurance-crm.local"`
	Password string `env:"ADMIN_PASSWORD" envDefault:""`
	FullName string `env:"ADMIN_FULL_NAME" envDefault:"Administrator"`
}

// Config is application config
type Config struct {
	ServerCfg   ServerCfg
	LogCfg      LogCfg
	StorageCfg  StorageCfg
	MongoCfg    MongoCfg
	RedisCfg    RedisCfg
	CalendarCfg CalendarCfg
	AuthCfg     AuthCfg
	AdminCfg    AdminCfg
}

// Build reads config from environment
func Build() (Config, error) {
	var cfg Config
	opts := env.Options{RequiredIfNoDef: true}

	if err := env.Parse(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}

	loc, err := time.LoadLocation(cfg.CalendarCfg.TimeZone)
	if err != nil {
		return cfg, fmt.Errorf("failed to load calendar time zone %s - %w", cfg.CalendarCfg.TimeZone, err)
	}
	cfg.CalendarCfg.Location = loc

	cfg.AuthCfg.JwtCfg.SigningMethod = jwt.GetSigningMethod(jwtSigningAlgorithmEd25519)

	jwtPrivateKeyFile := os.Getenv("AUTH_JWT_PRIVATE_KEY_FILE")
	jwtPrivateKeyBytes, err := os.ReadFile(jwtPrivateKeyFile)
	if err != nil {
		return cfg, fmt.Errorf("failed to read private key file for jwt - %w", err)
	}

	jwtPrivateKey, err := jwt.ParseEdPrivateKeyFromPEM(jwtPrivateKeyBytes)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse private key for jwt - %w", err)
	}
	cfg.AuthCfg.JwtCfg.PrivateKey = jwtPrivateKey

	jwtPublicKeyFile := os.Getenv("AUTH_JWT_PUBLIC_KEY_FILE")
	jwtPublicKeyBytes, err := os.ReadFile(jwtPublicKeyFile)
	if err != nil {
		return cfg, fmt.Errorf("failed to read public key file for jwt - %w", err)
	}

	jwtPublicKey, err := jwt.ParseEdPublicKeyFromPEM(jwtPublicKeyBytes)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse public key for jwt - %w", err)
	}
	cfg.AuthCfg.JwtCfg.PublicKey = jwtPublicKey

	return cfg, nil
}
