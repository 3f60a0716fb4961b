package config

import (
	"errors"
	"strings"
	"time"

	"alcyxob/workout-coach/internal/session"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Session  SessionConfig  `mapstructure:"session"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// LogConfig controls logrus output. An empty File logs to stdout only.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	FormatJSON bool   `mapstructure:"format_json"`
	File       string `mapstructure:"file"`
	ToStdout   bool   `mapstructure:"to_stdout"`
}

// SessionConfig tunes the guided workout sessions hosted by the server.
type SessionConfig struct {
	DefaultRestSeconds int           `mapstructure:"default_rest_seconds"`
	SetTimeoutPerRep   time.Duration `mapstructure:"set_timeout_per_rep"`
	TickInterval       time.Duration `mapstructure:"tick_interval"`
	PersistTimeout     time.Duration `mapstructure:"persist_timeout"`
	Language           string        `mapstructure:"language"`
	RetainFinished     time.Duration `mapstructure:"retain_finished"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"` // Unfinished sessions untouched this long are terminated
	TranscriptSize     int           `mapstructure:"transcript_size"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, session.persist_timeout -> SESSION_PERSIST_TIMEOUT
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No file, defaults and env vars only.
		err = nil
	} else if err != nil {
		return
	}

	// Viper parses duration strings ("60m", "1h") straight into time.Duration fields.
	if err = v.Unmarshal(&config); err != nil {
		return
	}

	if err = config.Validate(); err != nil {
		return
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "workout_coach")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "workout-coach")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format_json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.to_stdout", true)
	v.SetDefault("session.default_rest_seconds", 60)
	v.SetDefault("session.set_timeout_per_rep", "10s")
	v.SetDefault("session.tick_interval", "1s")
	v.SetDefault("session.persist_timeout", "10s")
	v.SetDefault("session.language", "en")
	v.SetDefault("session.retain_finished", "15m")
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("session.transcript_size", 200)
}

// Validate rejects settings the server cannot run with and normalises the rest.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must be set")
	}
	if c.Session.TickInterval <= 0 {
		return errors.New("session.tick_interval must be positive")
	}
	if c.Session.SetTimeoutPerRep < 0 {
		return errors.New("session.set_timeout_per_rep cannot be negative")
	}
	if c.Session.IdleTimeout <= 0 {
		return errors.New("session.idle_timeout must be positive")
	}
	if c.Session.RetainFinished <= 0 {
		return errors.New("session.retain_finished must be positive")
	}
	c.Session.DefaultRestSeconds = session.ClampRestSeconds(c.Session.DefaultRestSeconds)
	if c.Session.TranscriptSize <= 0 {
		c.Session.TranscriptSize = 200
	}
	return nil
}
