// Package config loads the company service settings from a YAML file, an
// optional .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/gartstein/companies/internal/company/db"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// PathEnv names the environment variable that overrides the config file location.
const PathEnv = "COMPANY_CONFIG"

// DefaultPath is where the service looks for its YAML file when PathEnv is unset.
var DefaultPath = filepath.Join("internal", "company", "config", "config.yaml")

// Config struct for YAML configuration. Every key may be overridden by an
// environment variable of the same name; lists are comma separated.
type Config struct {
	GRPCPort         int      `yaml:"GRPC_PORT"`
	HTTPPort         int      `yaml:"HTTP_PORT"`
	DBHost           string   `yaml:"DB_HOST"`
	DBPort           int      `yaml:"DB_PORT"`
	DBUser           string   `yaml:"DB_USER"`
	DBPassword       string   `yaml:"DB_PASSWORD"`
	DBName           string   `yaml:"DB_NAME"`
	DBSSLMode        string   `yaml:"DB_SSLMODE"`
	DBAutoMigrate    bool     `yaml:"DB_AUTO_MIGRATE"`
	DBConnectRetries uint64   `yaml:"DB_CONNECT_RETRIES"`
	KafkaBrokers     []string `yaml:"KAFKA_BROKERS"`
	Topic            string   `yaml:"TOPIC"`
	ConsumerGroup    string   `yaml:"CONSUMER_GROUP"`
	JWTSecret        string   `yaml:"JWT_SECRET"`
	LogLevel         string   `yaml:"LOG_LEVEL"`
}

// Default returns the settings used for keys absent from every source.
func Default() *Config {
	return &Config{
		GRPCPort:         50051,
		HTTPPort:         8080,
		DBHost:           "localhost",
		DBPort:           5432,
		DBUser:           "postgres",
		DBName:           "companies",
		DBSSLMode:        "disable",
		DBAutoMigrate:    true,
		DBConnectRetries: 5,
		KafkaBrokers:     []string{"localhost:9092"},
		Topic:            "company-events",
		ConsumerGroup:    "company-audit",
		LogLevel:         "info",
	}
}

// Load reads path (or $COMPANY_CONFIG, or DefaultPath when path is empty),
// loads envFiles (".env" when none are given) and applies environment
// overrides. Missing files are skipped.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.GRPCPort <= 0 || c.HTTPPort <= 0 {
		errs = append(errs, errors.New("GRPC_PORT and HTTP_PORT must be positive"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if len(c.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required"))
	}
	if c.Topic == "" {
		errs = append(errs, errors.New("TOPIC is required"))
	}
	return errors.Join(errs...)
}

// Database returns the store settings.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Host:           c.DBHost,
		Port:           c.DBPort,
		User:           c.DBUser,
		Password:       c.DBPassword,
		DBName:         c.DBName,
		SSLMode:        c.DBSSLMode,
		AutoMigrate:    c.DBAutoMigrate,
		ConnectRetries: c.DBConnectRetries,
	}
}

// Logger builds a production zap logger at LOG_LEVEL.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	return zc.Build()
}

// applyEnv overwrites every field whose yaml key is present in the environment.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("yaml")
		raw, ok := lookup(key)
		if !ok {
			continue
		}
		if err := setField(v.Field(i), raw); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	return nil
}

func setField(f reflect.Value, raw string) error {
	switch f.Kind() {
	case reflect.String:
		f.SetString(raw)
	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		f.SetInt(int64(n))
	case reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		f.SetUint(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		f.SetBool(b)
	case reflect.Slice:
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		f.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported kind %s", f.Kind())
	}
	return nil
}
