package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds settings for reaching remote storage.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (applied by the caller after Load)
//  2. Environment variables (RFIND_*)
//  3. Configuration file (YAML)
//  4. Default values
type Config struct {
	SSH SSHConfig `mapstructure:"ssh"`
	S3  S3Config  `mapstructure:"s3"`
}

// SSHConfig controls how [user@]host:path locations are reached
type SSHConfig struct {
	// KeyPath is passed to ssh as -i when set
	KeyPath string `mapstructure:"key_path" validate:"omitempty,file"`

	// AgentPath is the rfind binary to run on the remote host for remote-execution mode
	AgentPath string `mapstructure:"agent_path" validate:"required"`

	// ForceSFTP skips the remote agent probe and always lists over SFTP
	ForceSFTP bool `mapstructure:"force_sftp"`

	// ProbeTimeout bounds the remote agent probe
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" validate:"gt=0"`
}

// S3Config controls how s3://bucket/prefix locations are reached
type S3Config struct {
	Region string `mapstructure:"region" validate:"required"`

	// Endpoint is a custom endpoint for S3-compatible storage (MinIO, Localstack etc.)
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`

	// AccessKeyID and SecretAccessKey are optional static credentials;
	// the default AWS credential chain is used when they're empty
	AccessKeyID     string `mapstructure:"access_key_id" validate:"required_with=SecretAccessKey"`
	SecretAccessKey string `mapstructure:"secret_access_key" validate:"required_with=AccessKeyID"`

	MaxRetries   int  `mapstructure:"max_retries" validate:"gte=0,lte=50"`
	UsePathStyle bool `mapstructure:"use_path_style"`
}

const envPrefix = "RFIND"

// Load loads configuration from file, environment and defaults, then validates it.
// An empty configPath means the default location; a missing default file is fine.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is configured
func Default() *Config {
	return &Config{
		SSH: SSHConfig{
			AgentPath:    "rfind",
			ProbeTimeout: 10 * time.Second,
		},
		S3: S3Config{
			Region:     "us-east-1",
			MaxRetries: 10,
		},
	}
}

// setDefaults registers every key, which also lets AutomaticEnv pick them up on Unmarshal
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("ssh.key_path", d.SSH.KeyPath)
	v.SetDefault("ssh.agent_path", d.SSH.AgentPath)
	v.SetDefault("ssh.force_sftp", d.SSH.ForceSFTP)
	v.SetDefault("ssh.probe_timeout", d.SSH.ProbeTimeout)
	v.SetDefault("s3.region", d.S3.Region)
	v.SetDefault("s3.endpoint", d.S3.Endpoint)
	v.SetDefault("s3.access_key_id", d.S3.AccessKeyID)
	v.SetDefault("s3.secret_access_key", d.S3.SecretAccessKey)
	v.SetDefault("s3.max_retries", d.S3.MaxRetries)
	v.SetDefault("s3.use_path_style", d.S3.UsePathStyle)
}

// getConfigDir returns $XDG_CONFIG_HOME/rfind, falling back to ~/.config/rfind
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "rfind")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "rfind")
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
