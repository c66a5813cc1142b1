package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bestronggym/gym-desk/internal/domain"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environments understood by the logger.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Slot and seed drivers.
const (
	SlotsMemory = "memory"
	SlotsMongo  = "mongo"
	SlotsSQLite = "sqlite"

	SeedNone = "none"
	SeedFile = "file"
	SeedHTTP = "http"
	SeedS3   = "s3"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Slots    SlotsConfig    `mapstructure:"slots"`
	Seed     SeedConfig     `mapstructure:"seed"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Staff    StaffConfig    `mapstructure:"staff"`
	Billing  BillingConfig  `mapstructure:"billing"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// DatabaseConfig is only used by the mongo slot driver.
type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type SlotsConfig struct {
	Driver         string `mapstructure:"driver"`
	SQLitePath     string `mapstructure:"sqlite_path"`
	ClientsKey     string `mapstructure:"clients_key"`
	MembershipsKey string `mapstructure:"memberships_key"`
}

type SeedConfig struct {
	Driver            string `mapstructure:"driver"`
	Dir               string `mapstructure:"dir"`
	BaseURL           string `mapstructure:"base_url"`
	ClientsObject     string `mapstructure:"clients_object"`
	MembershipsObject string `mapstructure:"memberships_object"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"` // scheme for an endpoint given as bare host:port
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// StaffConfig is the shared front-desk credential.
type StaffConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type BillingConfig struct {
	ExpirationRule string        `mapstructure:"expiration_rule"`
	Plans          []domain.Plan `mapstructure:"plans"`
}

// LoadConfig reads configuration from file or environment variables.
// An optional .env file in path is loaded into the environment first.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load(strings.TrimSuffix(path, "/") + "/.env")

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// No file: defaults and environment only.
		err = nil
	} else if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}
	if len(config.Billing.Plans) == 0 {
		config.Billing.Plans = domain.DefaultPlans()
	}
	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "bestronggym")
	v.SetDefault("slots.driver", SlotsSQLite)
	v.SetDefault("slots.sqlite_path", "gym-desk.db")
	v.SetDefault("slots.clients_key", "clients")
	v.SetDefault("slots.memberships_key", "memberships")
	v.SetDefault("seed.driver", SeedFile)
	v.SetDefault("seed.dir", "data")
	v.SetDefault("seed.base_url", "")
	v.SetDefault("seed.clients_object", "clients.json")
	v.SetDefault("seed.memberships_object", "memberships.json")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "bestronggym-seed")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.expiration", "8h")
	v.SetDefault("staff.username", "staff")
	v.SetDefault("staff.password", "admin123")
	v.SetDefault("billing.expiration_rule", domain.RulePlanDays)
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	switch c.Slots.Driver {
	case SlotsMemory, SlotsMongo, SlotsSQLite:
	default:
		return fmt.Errorf("unknown slots.driver %q", c.Slots.Driver)
	}
	switch c.Seed.Driver {
	case SeedNone, SeedFile, SeedHTTP, SeedS3:
	default:
		return fmt.Errorf("unknown seed.driver %q", c.Seed.Driver)
	}
	if c.Seed.Driver == SeedHTTP && c.Seed.BaseURL == "" {
		return errors.New("seed.base_url is required for the http seed driver")
	}
	if _, err := domain.RuleByName(c.Billing.ExpirationRule); err != nil {
		return err
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret cannot be empty")
	}
	return nil
}
