package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ProjectName string
	APIPrefix   string
	HTTPAddress string
	GRPCAddress string

	DatabaseURL          string
	DatabaseAutoMigrate  bool
	DatabaseMaxOpenConns int

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	SecretKey      string
	AccessTokenTTL time.Duration
	PasswordPepper string
	SingleSession  bool

	LoginRateLimit int
	LoginRateBurst int

	LogLevel      string
	HTTPSCertFile string
	HTTPSKeyFile  string
}

const minSecretKeyLen = 32

func setDefaults(v *viper.Viper) {
	v.SetDefault("project_name", "Skeleton API")
	v.SetDefault("api_prefix", "/api/v1")
	v.SetDefault("http_address", ":8000")
	v.SetDefault("grpc_address", "")
	v.SetDefault("database_auto_migrate", false)
	v.SetDefault("database_max_open_conns", 20)
	v.SetDefault("redis_address", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("access_token_ttl", "30m")
	v.SetDefault("session_single_active", false)
	v.SetDefault("login_rate_limit", 5)
	v.SetDefault("login_rate_burst", 10)
	v.SetDefault("log_level", "info")
}

// Load reads settings from an optional config file and the environment;
// environment variables win. With an empty path the file is looked up as
// ./config.<APP_ENV> (or ./config when APP_ENV is unset) in any format viper
// understands, and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		name := "config"
		if env := strings.ToLower(os.Getenv("APP_ENV")); env != "" {
			name += "." + env
		}
		v.SetConfigName(name)
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		ProjectName:          v.GetString("project_name"),
		APIPrefix:            strings.TrimRight(v.GetString("api_prefix"), "/"),
		HTTPAddress:          v.GetString("http_address"),
		GRPCAddress:          v.GetString("grpc_address"),
		DatabaseURL:          v.GetString("database_url"),
		DatabaseAutoMigrate:  v.GetBool("database_auto_migrate"),
		DatabaseMaxOpenConns: v.GetInt("database_max_open_conns"),
		RedisAddress:         v.GetString("redis_address"),
		RedisPassword:        v.GetString("redis_password"),
		RedisDB:              v.GetInt("redis_db"),
		SecretKey:            v.GetString("secret_key"),
		AccessTokenTTL:       v.GetDuration("access_token_ttl"),
		PasswordPepper:       v.GetString("password_pepper"),
		SingleSession:        v.GetBool("session_single_active"),
		LoginRateLimit:       v.GetInt("login_rate_limit"),
		LoginRateBurst:       v.GetInt("login_rate_burst"),
		LogLevel:             v.GetString("log_level"),
		HTTPSCertFile:        v.GetString("https_cert_file"),
		HTTPSKeyFile:         v.GetString("https_key_file"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if len(c.SecretKey) < minSecretKeyLen {
		return fmt.Errorf("SECRET_KEY must be at least %d bytes", minSecretKeyLen)
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	if (c.HTTPSCertFile == "") != (c.HTTPSKeyFile == "") {
		return errors.New("HTTPS_CERT_FILE and HTTPS_KEY_FILE must be set together")
	}
	return nil
}

// TLS reports whether listeners should serve TLS.
func (c *Config) TLS() bool {
	return c.HTTPSCertFile != "" && c.HTTPSKeyFile != ""
}
