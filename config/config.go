// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configPath        = pflag.String("config", ".", "Directory containing config.toml")
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageTypes = []string{"s3", "local"}
)

const defaultSecret = "jwt-secret"

// Config is a typed snapshot of the settings handed to the rest of the
// application during startup.
type Config struct {
	AppName  string
	LogLevel string

	Port        int
	CORSOrigins []string
	RateLimit   int

	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	Upload  UploadConfig
	Storage StorageConfig
	AI      AIConfig
	Admin   AdminConfig
	Mail    MailConfig
}

type UploadConfig struct {
	Dir     string
	MaxSize int64 // bytes
}

type StorageConfig struct {
	Type string
	S3   S3Config
}

// S3Config also covers Cloudflare R2 and other S3 compatible providers
// through Endpoint.
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

type AIConfig struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

type AdminConfig struct {
	Username string
	Password string
}

// Enabled reports whether the admin console should be mounted.
func (a AdminConfig) Enabled() bool {
	return a.Username != "" && a.Password != ""
}

type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Sender   string
	Password string
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configPath)

	bind()

	// The config file is optional, everything can come from the environment
	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	return validate()
}

// bind registers env names and defaults for every key.
func bind() {
	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.name", "APP_NAME")
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")

	v.BindEnv("host.port", "PORT")
	v.BindEnv("host.cors", "HOST_CORS")

	v.BindEnv("database.url", "DATABASE_URL")

	v.BindEnv("jwt.secret", "JWT_SECRET_KEY")
	v.BindEnv("jwt.expiry", "JWT_ACCESS_TOKEN_EXPIRES")

	v.BindEnv("upload.dir", "UPLOAD_FOLDER")
	v.BindEnv("upload.max_size", "UPLOAD_MAX_SIZE")

	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.access_key_id", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secret_access_key", "S3_SECRET_ACCESS_KEY")

	v.BindEnv("ai.api_key", "OPENAI_API_KEY")
	v.BindEnv("ai.endpoint", "AI_ENDPOINT")
	v.BindEnv("ai.model", "AI_MODEL")
	v.BindEnv("ai.timeout", "AI_TIMEOUT")

	v.BindEnv("admin.username", "ADMIN_USERNAME")
	v.BindEnv("admin.password", "ADMIN_PASSWORD")

	v.BindEnv("mail.enabled", "MAIL_ENABLED")
	v.BindEnv("mail.host", "MAIL_HOST")
	v.BindEnv("mail.port", "MAIL_PORT")
	v.BindEnv("mail.sender", "MAIL_SENDER_ADDRESS")
	v.BindEnv("mail.password", "MAIL_PASSWORD")

	v.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")

	//
	// Defaults
	//
	v.SetDefault("app.name", "Pathfinder AI Guide - Backend")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 5000)
	v.SetDefault("host.cors", "http://localhost:5173,http://localhost:8080")

	v.SetDefault("database.url", "pathfinder.db")

	v.SetDefault("jwt.secret", defaultSecret)
	v.SetDefault("jwt.expiry", "15m")

	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.max_size", 16)

	v.SetDefault("storage.type", "local")
	v.SetDefault("s3.region", "auto")

	v.SetDefault("ai.endpoint", "https://api.openai.com/v1/responses")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout", "15s")

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.port", 587)

	v.SetDefault("security.rate_limit", 0)
}

func validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("database.url") == "" {
		return errors.New("database.url can't be empty")
	}

	if v.GetDuration("jwt.expiry") <= 0 {
		return errors.New("jwt.expiry must be a positive duration")
	}

	if v.GetString("jwt.secret") == defaultSecret {
		fmt.Println("[WARNING]: JWT_SECRET_KEY is not set, tokens are signed with the development secret")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetString("upload.dir") == "" {
		return errors.New("upload.dir can't be empty")
	}

	storageType := v.GetString("storage.type")
	if !slices.Contains(validStorageTypes, storageType) {
		return errors.New("invalid storage type provided")
	}

	if storageType == "s3" {
		if v.GetString("s3.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
		if v.GetString("s3.access_key_id") == "" {
			return errors.New("access key id can't be empty")
		}
		if v.GetString("s3.secret_access_key") == "" {
			return errors.New("secret access key can't be empty")
		}
	}

	if v.GetDuration("ai.timeout") <= 0 {
		return errors.New("ai.timeout must be a positive duration")
	}

	if v.GetString("ai.api_key") == "" {
		fmt.Println("[WARNING]: OPENAI_API_KEY is not set, recommendations will use the mock response")
	}

	if v.GetBool("mail.enabled") {
		if v.GetString("mail.host") == "" {
			return errors.New("mail.host can't be empty when mail is enabled")
		}
		if v.GetString("mail.sender") == "" {
			return errors.New("mail.sender can't be empty when mail is enabled")
		}
	}

	if v.GetInt("security.rate_limit") < 0 {
		return errors.New("security.rate_limit can't be negative")
	}

	return nil
}

// Load returns the current settings. Setup has to be called first.
func Load() *Config {
	return &Config{
		AppName:     v.GetString("app.name"),
		LogLevel:    v.GetString("app.log_level"),
		Port:        v.GetInt("host.port"),
		CORSOrigins: splitList(v.GetString("host.cors")),
		RateLimit:   v.GetInt("security.rate_limit"),
		DatabaseURL: v.GetString("database.url"),
		JWTSecret:   v.GetString("jwt.secret"),
		TokenTTL:    v.GetDuration("jwt.expiry"),
		Upload: UploadConfig{
			Dir:     v.GetString("upload.dir"),
			MaxSize: v.GetInt64("upload.max_size") << 20,
		},
		Storage: StorageConfig{
			Type: v.GetString("storage.type"),
			S3: S3Config{
				Endpoint:        v.GetString("s3.endpoint"),
				Region:          v.GetString("s3.region"),
				Bucket:          v.GetString("s3.bucket"),
				AccessKeyID:     v.GetString("s3.access_key_id"),
				SecretAccessKey: v.GetString("s3.secret_access_key"),
			},
		},
		AI: AIConfig{
			APIKey:   v.GetString("ai.api_key"),
			Endpoint: v.GetString("ai.endpoint"),
			Model:    v.GetString("ai.model"),
			Timeout:  v.GetDuration("ai.timeout"),
		},
		Admin: AdminConfig{
			Username: v.GetString("admin.username"),
			Password: v.GetString("admin.password"),
		},
		Mail: MailConfig{
			Enabled:  v.GetBool("mail.enabled"),
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			Sender:   v.GetString("mail.sender"),
			Password: v.GetString("mail.password"),
		},
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}

	return res
}
