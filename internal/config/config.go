package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/vango-dev/bento/internal/errors"
	"github.com/vango-dev/bento/pkg/adapter"
	"github.com/vango-dev/bento/pkg/box"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "bento.json"

	// DefaultWidth is the default surface width in points.
	DefaultWidth = 375

	// DefaultScale is the default content scale factor.
	DefaultScale = 2

	// DefaultMargin is the default horizontal layout margin.
	DefaultMargin = 16

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "bento"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config represents the complete bento.json configuration.
type Config struct {
	// Surface describes the simulated table.
	Surface SurfaceConfig `json:"surface"`

	// Inspect configures the inspector server.
	Inspect InspectConfig `json:"inspect"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `json:"metrics"`

	// Log configures logging.
	Log LogConfig `json:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SurfaceConfig describes the table geometry.
type SurfaceConfig struct {
	// Width is the table width in points.
	Width float64 `json:"width"`

	// Margins are the table's layout margins.
	Margins MarginsConfig `json:"margins"`

	// ContentScaleFactor is the number of pixels per point.
	ContentScaleFactor float64 `json:"contentScaleFactor"`

	// Separators reports whether rows are separated by a hairline.
	Separators bool `json:"separators"`
}

// MarginsConfig are layout margins in points.
type MarginsConfig struct {
	Top    float64 `json:"top,omitempty"`
	Left   float64 `json:"left,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Right  float64 `json:"right,omitempty"`
}

// InspectConfig contains inspector server settings.
type InspectConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`

	// Enabled registers the metrics and serves them at /metrics.
	Enabled bool `json:"enabled"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Surface: SurfaceConfig{
			Width:              DefaultWidth,
			Margins:            MarginsConfig{Left: DefaultMargin, Right: DefaultMargin},
			ContentScaleFactor: DefaultScale,
			Separators:         true,
		},
		Inspect: InspectConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
			Enabled:   true,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for bento.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. Fields absent
// from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No bento.json found in " + filepath.Dir(path))
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse bento.json: " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Surface.ContentScaleFactor == 0 {
		c.Surface.ContentScaleFactor = 1
	}
	if c.Inspect.Host == "" {
		c.Inspect.Host = DefaultHost
	}
	if c.Inspect.Port == 0 {
		c.Inspect.Port = DefaultPort
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
}

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	s := c.Surface
	switch {
	case s.Width < 0:
		return errors.New("E122").WithDetail("surface.width must not be negative")
	case s.ContentScaleFactor < 0:
		return errors.New("E122").WithDetail("surface.contentScaleFactor must not be negative")
	case s.Margins.Top < 0 || s.Margins.Left < 0 || s.Margins.Bottom < 0 || s.Margins.Right < 0:
		return errors.New("E122").WithDetail("surface.margins must not be negative")
	case s.Width > 0 && s.Margins.Left+s.Margins.Right >= s.Width:
		return errors.New("E122").WithDetail("surface.margins leave no room for content")
	}
	if c.Inspect.Port < 0 || c.Inspect.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535")
	}
	if !metricName.MatchString(c.Metrics.Namespace) {
		return errors.New("E122").
			WithDetailf("metrics.namespace %q is not a valid metric name prefix", c.Metrics.Namespace)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	return ParseLevel(c.Log.Level)
}

// ParseLevel parses a log level name.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, errors.New("E122").
			WithDetailf("unknown log level %q", name).
			WithSuggestion("Use debug, info, warn or error")
	}
	return level, nil
}

// Geometry returns the surface geometry for a table adapter.
func (c *Config) Geometry() adapter.Geometry {
	m := c.Surface.Margins
	return adapter.Geometry{
		Width:              c.Surface.Width,
		Margins:            box.Insets{Top: m.Top, Left: m.Left, Bottom: m.Bottom, Right: m.Right},
		ContentScaleFactor: c.Surface.ContentScaleFactor,
		Separators:         c.Surface.Separators,
	}
}

// InspectAddress returns the listen address of the inspector.
func (c *Config) InspectAddress() string {
	return net.JoinHostPort(c.Inspect.Host, strconv.Itoa(c.Inspect.Port))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing bento.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E121").
				WithDetail("No bento.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest bento.json at or
// above the working directory. Defaults are returned when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		if errors.HasCode(err, "E121") {
			return New(), nil
		}
		return nil, err
	}

	return Load(root)
}
