// Package config loads settings for the report commands.
// Priority: defaults < YAML file < .env file < environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/sendxls-go/pkg/sendxls"
	"github.com/ukaji3/sendxls-go/pkg/sendxls/parser"
	"github.com/ukaji3/sendxls-go/pkg/sendxls/splunk"
)

// LogFileName is the log file under the platform log directory.
const LogFileName = "sendxlsresults.log"

// EnvConfigPath names the environment variable holding the YAML config path.
const EnvConfigPath = "SENDXLS_CONFIG"

// Config holds all settings.
type Config struct {
	// SplunkHome is the platform install directory (SPLUNK_HOME).
	SplunkHome string `yaml:"splunk_home"`
	// ServerURI is the management endpoint used by search commands.
	ServerURI          string        `yaml:"server_uri"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	SMTPTimeout        time.Duration `yaml:"smtp_timeout"`

	Log       LogConfig       `yaml:"log"`
	Converter ConverterConfig `yaml:"converter"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
	// Path overrides the log file location.
	Path string `yaml:"path"`
}

// ConverterConfig maps to sendxls.Options.
type ConverterConfig struct {
	MetaPrefix *string `yaml:"meta_prefix"`
	Lenient    bool    `yaml:"lenient"`
	MaxRows    int     `yaml:"max_rows"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		ServerURI:          splunk.DefaultServerURI,
		InsecureSkipVerify: true,
		RequestTimeout:     30 * time.Second,
		SMTPTimeout:        60 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the optional YAML file at path over the defaults, then applies
// a .env file from the working directory and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.loadEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv("SPLUNK_HOME"); v != "" {
		c.SplunkHome = v
	}
	if v := os.Getenv("SENDXLS_SERVER_URI"); v != "" {
		c.ServerURI = v
	}
	if v := os.Getenv("SENDXLS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SENDXLS_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("SENDXLS_INSECURE_SKIP_VERIFY"); v != "" {
		c.InsecureSkipVerify = splunk.ParseFlag(v)
	}
	if v := os.Getenv("SENDXLS_MAX_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SENDXLS_MAX_ROWS %q: %w", v, err)
		}
		c.Converter.MaxRows = n
	}
	return nil
}

// Validate checks required settings.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SplunkHome) == "" {
		return fmt.Errorf("SPLUNK_HOME is not set")
	}
	if c.Converter.MaxRows < 0 {
		return fmt.Errorf("converter.max_rows must not be negative")
	}
	return nil
}

// RunDir is the directory shared by the search process and the mailer.
func (c Config) RunDir() string {
	return filepath.Join(c.SplunkHome, "var", "run", "splunk")
}

// LogPath is the log file location.
func (c Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	return filepath.Join(c.SplunkHome, "var", "log", "splunk", LogFileName)
}

// ConverterOptions returns the conversion options.
func (c Config) ConverterOptions() sendxls.Options {
	opts := sendxls.DefaultOptions()
	if c.Converter.MetaPrefix != nil {
		opts.MetaPrefix = *c.Converter.MetaPrefix
	} else {
		opts.MetaPrefix = parser.DefaultMetaPrefix
	}
	opts.Lenient = c.Converter.Lenient
	opts.MaxRows = c.Converter.MaxRows
	return opts
}
