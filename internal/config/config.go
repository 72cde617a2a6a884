// Package config handles loading and validating application configuration.
//
// Values are resolved in this order (later sources win):
//  1. Defaults declared in the env-default struct tags
//  2. An optional YAML file: --config=/path/to/config.yaml or CONFIG_PATH
//  3. A .cred dotenv file in the working directory, when present
//  4. The process environment
//
// The parsed values are returned as a *Config that is built once and handed
// to whatever needs it. Nothing in this package keeps global state.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// CredFile is the dotenv file holding database credentials.
const CredFile = ".cred"

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	Database Database `yaml:"database"`

	HTTPServer `yaml:"http_server"`
}

// Database describes where the students table lives.
//
// User and Password have no defaults: a MySQL backend refuses to start
// without them.
type Database struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER" env-default:"mysql" validate:"oneof=mysql sqlite3"`
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost" validate:"required_if=Driver mysql"`
	User     string `yaml:"user" env:"DB_USER" validate:"required_if=Driver mysql"`
	Password string `yaml:"password" env:"DB_PASSWORD" validate:"required_if=Driver mysql"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"db_escola" validate:"required_if=Driver mysql"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"3306" validate:"min=1,max=65535"`

	// SSLCAPath points at a PEM bundle. When set the connection uses TLS.
	SSLCAPath string `yaml:"ssl_ca" env:"SSL_CA_PATH" validate:"omitempty,file"`

	// Path is the SQLite database file, used only with the sqlite3 driver.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"students.db" validate:"required_if=Driver sqlite3"`
}

// Addr returns host:port, bracketing IPv6 hosts.
func (d Database) Addr() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// HTTPServer holds settings for the `serve` command.
type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082" validate:"required"`
}

// Load reads, validates, and returns the application config.
// configPath may be empty, in which case CONFIG_PATH is consulted and,
// failing that, only the environment is read.
func Load(configPath string) (*Config, error) {
	if err := loadCredentials(CredFile); err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	if configPath != "" {
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}

		// ReadConfig reads the YAML file and then applies env overrides
		// and env-default values.
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// loadCredentials exports the variables of a dotenv file into the process
// environment. Variables that are already set keep their value, and a
// missing file is not an error.
func loadCredentials(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("cannot read %s: %w", path, err)
}
