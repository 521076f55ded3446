// Package config handles loading and parsing application configuration for
// both binaries: the backend (Config) and the terminal client (Client).
// The config file path comes from two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// The parsed values are returned as pointers so the struct is shared by
// reference rather than copied everywhere.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the backend configuration.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
//
// env-required:"true" means the app refuses to start if that value is
// missing.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	// Branches is the set of accepted program codes. Empty accepts any.
	Branches []string `yaml:"branches" env:"BRANCHES" env-separator:","`

	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
}

// Client is the terminal client configuration.
type Client struct {
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// BaseURL points at the student resource collection,
	// e.g. "http://localhost:8082/api".
	BaseURL string `yaml:"base_url" env:"STUDENTS_BASE_URL" env-required:"true"`

	// RequestTimeout bounds every HTTP call. There is no retry.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"10s"`

	// LogPath receives the client's structured logs; stdout belongs to the UI.
	LogPath string `yaml:"log_path" env:"LOG_PATH" env-default:"students-tui.log"`

	Branches []string `yaml:"branches" env:"BRANCHES" env-separator:","`

	// AckDelay is how long transient acknowledgements stay on screen.
	AckDelay time.Duration `yaml:"ack_delay" env:"ACK_DELAY" env-default:"2s"`

	Table Table `yaml:"table"`
}

// Table configures the student table widget.
type Table struct {
	PageLength int `yaml:"page_length" env:"TABLE_PAGE_LENGTH" env-default:"5"`

	// PageLengths are the choices offered to the user; -1 means all rows.
	PageLengths []int `yaml:"page_lengths" env:"TABLE_PAGE_LENGTHS" env-separator:"," env-default:"5,10,20,-1"`
}

// MustLoad reads, validates, and returns the backend config.
//
// Functions prefixed with "Must" are allowed to fatal on failure. If this
// function returns, the config is valid.
func MustLoad() *Config {
	var cfg Config
	mustRead(&cfg)
	return &cfg
}

// MustLoadClient reads, validates, and returns the terminal client config.
func MustLoadClient() *Client {
	var cfg Client
	mustRead(&cfg)
	return &cfg
}

func mustRead(cfg any) {
	path, err := resolvePath()
	if err != nil {
		log.Fatal(err)
	}
	if err := Read(path, cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}
}

// Read populates cfg from the YAML file at path and from the environment,
// then checks env-required constraints.
func Read(path string, cfg any) error {
	// Verify the file exists before trying to read it so the user gets a
	// clear message rather than a cryptic "open: no such file" later.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", path)
	}
	return cleanenv.ReadConfig(path, cfg)
}

func resolvePath() (string, error) {
	// Source 1: environment variable (Docker / Kubernetes style).
	configPath := os.Getenv("CONFIG_PATH")

	// Source 2: command-line flag (local runs).
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		return "", fmt.Errorf("config path is not set: use --config flag or CONFIG_PATH env var")
	}
	return configPath, nil
}
