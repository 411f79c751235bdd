package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/enhance/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "enhance.yaml"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultElements is the default element template directory.
	DefaultElements = "elements"

	// DefaultPages is the default page directory.
	DefaultPages = "pages"

	// DefaultMinSize is the smallest response compressed by default.
	DefaultMinSize = 1024
)

// Compression levels accepted in server.compression.level.
const (
	LevelDefault = "default"
	LevelFastest = "fastest"
	LevelBest    = "best"
)

// Config represents the complete enhance.yaml configuration.
type Config struct {
	// Elements is the directory of <tag-name>.html element templates.
	Elements string `yaml:"elements,omitempty"`

	// ElementsS3 reads element templates from S3 instead of Elements.
	ElementsS3 *S3Config `yaml:"elementsS3,omitempty"`

	// Pages is the directory of page documents served by `enhance serve`.
	Pages string `yaml:"pages,omitempty"`

	// State is a YAML or JSON file holding the initial store.
	State string `yaml:"state,omitempty"`

	// Output selects the render output shape.
	Output OutputConfig `yaml:"output"`

	// Server contains page server configuration.
	Server ServerConfig `yaml:"server"`

	configPath string
}

// S3Config locates element templates in a bucket.
type S3Config struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix,omitempty"`
	Region string `yaml:"region,omitempty"`
}

// OutputConfig selects the render output shape.
type OutputConfig struct {
	// BodyContent renders only the body's inner markup.
	BodyContent bool `yaml:"bodyContent"`

	// SeparateContent renders head and body separately.
	SeparateContent bool `yaml:"separateContent"`

	// EnhancedAttr marks expanded elements with enhanced="✨".
	EnhancedAttr bool `yaml:"enhancedAttr"`
}

// ServerConfig contains page server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `yaml:"port,omitempty"`

	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `yaml:"metrics"`

	// Dev enables element watching and browser live reload.
	Dev bool `yaml:"dev"`

	// Compression configures gzip responses.
	Compression CompressionConfig `yaml:"compression"`
}

// CompressionConfig configures response compression.
type CompressionConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level,omitempty"`
	MinSize int    `yaml:"minSize,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Elements: DefaultElements,
		Pages:    DefaultPages,
		Output: OutputConfig{
			EnhancedAttr: true,
		},
		Server: ServerConfig{
			Host:    DefaultHost,
			Port:    DefaultPort,
			Metrics: true,
			Compression: CompressionConfig{
				Enabled: true,
				Level:   LevelDefault,
				MinSize: DefaultMinSize,
			},
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for enhance.yaml in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E021").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or pass --elements")
		}
		return nil, errors.New("E020").Wrap(err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E020").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid YAML")
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
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("E020").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E020").Wrap(err)
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

func (c *Config) applyDefaults() {
	if c.Elements == "" {
		c.Elements = DefaultElements
	}
	if c.Pages == "" {
		c.Pages = DefaultPages
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Compression.Level == "" {
		c.Server.Compression.Level = LevelDefault
	}
	if c.Server.Compression.MinSize == 0 {
		c.Server.Compression.MinSize = DefaultMinSize
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Output.BodyContent && c.Output.SeparateContent {
		return errors.New("E022").
			WithDetail("output.bodyContent and output.separateContent are both true").
			WithSuggestion("Choose one output mode")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E020").
			WithDetail("server.port must be between 0 and 65535")
	}
	if c.ElementsS3 != nil && c.ElementsS3.Bucket == "" {
		return errors.New("E020").
			WithDetail("elementsS3.bucket is required")
	}
	switch c.Server.Compression.Level {
	case LevelDefault, LevelFastest, LevelBest:
	default:
		return errors.New("E020").
			WithDetailf("server.compression.level %q is not one of default, fastest, best", c.Server.Compression.Level)
	}
	if c.Server.Compression.MinSize < 0 {
		return errors.New("E020").
			WithDetail("server.compression.minSize must not be negative")
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the server's base URL.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// ElementsPath returns the absolute path to the element directory.
func (c *Config) ElementsPath() string {
	return c.resolve(c.Elements)
}

// PagesPath returns the absolute path to the page directory.
func (c *Config) PagesPath() string {
	return c.resolve(c.Pages)
}

// StatePath returns the path to the state file, or "" when none is set.
func (c *Config) StatePath() string {
	if c.State == "" {
		return ""
	}
	return c.resolve(c.State)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing enhance.yaml, or an error if not found.
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
			return "", errors.New("E021").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or its nearest parent holding enhance.yaml.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
