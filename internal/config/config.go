package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"gitlab.com/gitlab-org/correlation-vector/cv"
)

const (
	configFile = "config.yml"

	defaultListen      = "localhost:8080"
	defaultGracePeriod = 10 * time.Second
)

// YamlDuration is a time.Duration read from a Go duration string such as "10s".
type YamlDuration time.Duration

func (d *YamlDuration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*d = YamlDuration(parsed)
	return nil
}

type SpinConfig struct {
	Interval    string `yaml:"interval"`
	Periodicity string `yaml:"periodicity"`
	Entropy     string `yaml:"entropy"`
}

type ServerConfig struct {
	Listen    string `yaml:"listen"`
	WebListen string `yaml:"web_listen"`
	// Upstream, when set, is called for every inbound request so that the extended vector is
	// propagated one hop further.
	Upstream          string       `yaml:"upstream"`
	Spin              bool         `yaml:"spin"`
	SetResponseHeader bool         `yaml:"set_response_header"`
	GracePeriod       YamlDuration `yaml:"grace_period"`
}

type Config struct {
	RootDir                string
	LogFile                string       `yaml:"log_file"`
	LogFormat              string       `yaml:"log_format"`
	LogLevel               string       `yaml:"log_level"`
	Tracing                string       `yaml:"tracing"`
	ValidateDuringCreation bool         `yaml:"validate_during_creation"`
	DefaultVersion         string       `yaml:"default_version"`
	Spin                   SpinConfig   `yaml:"spin"`
	Server                 ServerConfig `yaml:"server"`
}

// New returns a config holding only defaults, for running without a config file.
func New() *Config {
	cfg := &Config{}
	cfg.applyGenericDefaults()
	return cfg
}

// NewFromDir returns a new config given a root directory. It looks for the config file name in the
// given directory and reads the config from it.
func NewFromDir(dir string) (*Config, error) {
	return newFromFile(filepath.Join(dir, configFile))
}

// newFromFile reads a new Config instance from the given file path and applies defaults.
func newFromFile(path string) (*Config, error) {
	cfg := &Config{RootDir: filepath.Dir(path)}

	configBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := parseConfig(configBytes, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseConfig(configBytes []byte, cfg *Config) error {
	if err := yaml.Unmarshal(configBytes, cfg); err != nil {
		return err
	}

	cfg.applyGenericDefaults()

	return nil
}

// applyGenericDefaults applies defaults common to all operating modes.
func (cfg *Config) applyGenericDefaults() {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.DefaultVersion == "" {
		cfg.DefaultVersion = cv.V1.String()
	}

	spin := cv.DefaultSpinParameters()
	if cfg.Spin.Interval == "" {
		cfg.Spin.Interval = spin.Interval.String()
	}
	if cfg.Spin.Periodicity == "" {
		cfg.Spin.Periodicity = spin.Periodicity.String()
	}
	if cfg.Spin.Entropy == "" {
		cfg.Spin.Entropy = spin.Entropy.String()
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = defaultListen
	}
	if cfg.Server.GracePeriod == 0 {
		cfg.Server.GracePeriod = YamlDuration(defaultGracePeriod)
	}

	if len(cfg.LogFile) > 0 && !filepath.IsAbs(cfg.LogFile) && cfg.RootDir != "" {
		cfg.LogFile = filepath.Join(cfg.RootDir, cfg.LogFile)
	}
}

// OverrideFromEnvironment applies the CV_* environment variables on top of the file config.
func (cfg *Config) OverrideFromEnvironment() error {
	if logFormat := os.Getenv("CV_LOG_FORMAT"); logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if logLevel := os.Getenv("CV_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if tracing := os.Getenv("CV_TRACING"); tracing != "" {
		cfg.Tracing = tracing
	}
	if version := os.Getenv("CV_DEFAULT_VERSION"); version != "" {
		cfg.DefaultVersion = version
	}
	if validate := os.Getenv("CV_VALIDATE_DURING_CREATION"); validate != "" {
		enabled, err := strconv.ParseBool(validate)
		if err != nil {
			return fmt.Errorf("CV_VALIDATE_DURING_CREATION: %w", err)
		}
		cfg.ValidateDuringCreation = enabled
	}
	return nil
}

// Version is the version new vectors are created with.
func (cfg *Config) Version() (cv.Version, error) {
	return cv.ParseVersion(cfg.DefaultVersion)
}

func (cfg *Config) SpinParameters() (cv.SpinParameters, error) {
	var p cv.SpinParameters
	if err := p.Interval.UnmarshalText([]byte(cfg.Spin.Interval)); err != nil {
		return p, err
	}
	if err := p.Periodicity.UnmarshalText([]byte(cfg.Spin.Periodicity)); err != nil {
		return p, err
	}
	if err := p.Entropy.UnmarshalText([]byte(cfg.Spin.Entropy)); err != nil {
		return p, err
	}
	return p, nil
}

// GeneratorOptions translates the config into cv.Generator options.
func (cfg *Config) GeneratorOptions() ([]cv.Option, error) {
	version, err := cfg.Version()
	if err != nil {
		return nil, err
	}

	return []cv.Option{
		cv.WithVersion(version),
		cv.WithValidateDuringCreation(cfg.ValidateDuringCreation),
	}, nil
}

// NewGenerator returns a generator configured from cfg.
func (cfg *Config) NewGenerator() (*cv.Generator, error) {
	opts, err := cfg.GeneratorOptions()
	if err != nil {
		return nil, err
	}
	return cv.NewGenerator(opts...), nil
}

// IsSane checks if the given config fulfills the minimum requirements to be able to run.
// Any error returned by this function should be a startup error.
func (cfg *Config) IsSane() error {
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json, got %q", cfg.LogFormat)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	if _, err := cfg.Version(); err != nil {
		return fmt.Errorf("default_version: %w", err)
	}

	if _, err := cfg.SpinParameters(); err != nil {
		return err
	}

	if cfg.Server.Listen == "" {
		return errors.New("server.listen is required")
	}

	return nil
}
