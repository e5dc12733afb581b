package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const DEVELOPMENT = "development"
const PRODUCTION = "production"

// Environment variables override file values, e.g. TALKYG_UNIVERSE=128.
const envPrefix = "talkyg"

const defaultIndexCacheSize = 4096

type Configuration struct {
	Env string `yaml:"env" envconfig:"ENV"`
	// Number of attribute ids known to the loaded database. Itemsets wider
	// than this are rejected by tables. Zero disables the check.
	Universe int `yaml:"universe" envconfig:"UNIVERSE"`
	// Index frequent and closure tables with a trie.
	UseTrie bool `yaml:"use_trie" envconfig:"USE_TRIE"`
	// Entries kept by the generator index cache. Zero disables the cache.
	IndexCacheSize int    `yaml:"index_cache_size" envconfig:"INDEX_CACHE_SIZE"`
	LogLevel       string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	// "json" or "text".
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`
}

var configuration *Configuration = nil
var initLock sync.Mutex

func defaultConfiguration() *Configuration {
	return &Configuration{
		Env:            DEVELOPMENT,
		Universe:       0,
		UseTrie:        true,
		IndexCacheSize: defaultIndexCacheSize,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Load builds a Configuration from defaults, the optional YAML file at path
// and TALKYG_* environment variables, in that order of precedence.
func Load(path string) (*Configuration, error) {
	c := defaultConfiguration()
	if path != "" {
		if err := loadFile(path, c); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(envPrefix, c); err != nil {
		log.WithError(err).Error("Failed to apply environment overrides")
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func loadFile(path string, c *Configuration) error {
	absPath, _ := filepath.Abs(path)
	logCtx := log.WithFields(log.Fields{"file": absPath})

	raw, err := os.ReadFile(absPath)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load config")
		return err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal yaml")
		return err
	}
	logCtx.Debug("Config File Loaded")
	return nil
}

func (c *Configuration) Validate() error {
	if c.Universe < 0 {
		return fmt.Errorf("invalid universe %d", c.Universe)
	}
	if c.IndexCacheSize < 0 {
		return fmt.Errorf("invalid index_cache_size %d", c.IndexCacheSize)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	return nil
}

// Init loads the configuration once and sets up logging. Later calls return
// the already loaded configuration.
func Init(path string) (*Configuration, error) {
	initLock.Lock()
	defer initLock.Unlock()
	if configuration != nil {
		return configuration, nil
	}
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	InitLogging(c)
	configuration = c
	log.WithFields(log.Fields{"config": c}).Info("Config initialized")
	return configuration, nil
}

// InitLogging applies the level and format of c to the standard logger.
func InitLogging(c *Configuration) {
	if strings.ToLower(c.LogFormat) == "text" {
		log.SetFormatter(&log.TextFormatter{})
	} else {
		// Log as JSON instead of the default ASCII formatter.
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if c.Env == DEVELOPMENT && level < log.DebugLevel {
		// Development always gets debug logs.
		level = log.DebugLevel
	}
	log.SetLevel(level)
}

// GetConfig returns the configuration set by Init, or defaults when Init was
// never called.
func GetConfig() *Configuration {
	if configuration == nil {
		return defaultConfiguration()
	}
	return configuration
}

func IsDevelopment() bool {
	return GetConfig().Env == DEVELOPMENT
}

func IsProduction() bool {
	return GetConfig().Env == PRODUCTION
}
