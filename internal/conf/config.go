// config.go: settings struct for reefkb and functions to load and save it.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/reefgenomics/reefkb/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// ConfigFileEnv names an explicit config file, overriding the search paths
const ConfigFileEnv = "REEFKB_CONFIG"

// Database backends
const (
	DatabaseSQLite   = "sqlite"
	DatabaseMySQL    = "mysql"
	DatabasePostgres = "postgres"
)

// Photo store backends
const (
	PhotoStoreDir = "dir"
	PhotoStoreS3  = "s3"
)

// Sheet cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// SQLiteSettings contains settings for the SQLite backend
type SQLiteSettings struct {
	Path string `yaml:"path"` // database file, created if missing
}

// MySQLSettings contains settings for the MySQL backend
type MySQLSettings struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`     // may reference ${ENV} variables
	PasswordFile string `yaml:"passwordfile"` // secret file, wins over password
	Database     string `yaml:"database"`
	MaxOpenConns int    `yaml:"maxopenconns"`
}

// PostgresSettings contains settings for the PostgreSQL backend
type PostgresSettings struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordFile string `yaml:"passwordfile"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"sslmode"`
}

// DatabaseSettings selects and configures the relational store
type DatabaseSettings struct {
	Type               string           `yaml:"type"`               // sqlite, mysql or postgres
	SlowQueryThreshold time.Duration    `yaml:"slowquerythreshold"` // queries slower than this are logged at warn
	SQLite             SQLiteSettings   `yaml:"sqlite"`
	MySQL              MySQLSettings    `yaml:"mysql"`
	Postgres           PostgresSettings `yaml:"postgres"`
}

// S3Settings configures an S3 or S3-compatible photo bucket
type S3Settings struct {
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`     // custom endpoint, e.g. MinIO
	Prefix       string `yaml:"prefix"`       // key prefix photos live under
	UsePathStyle bool   `yaml:"usepathstyle"` // required by most S3-compatible servers
	PublicURL    string `yaml:"publicurl"`    // base URL stored on photo rows; derived when empty
}

// PhotoSettings configures where submission photos are looked up
type PhotoSettings struct {
	Store     string     `yaml:"store"`     // dir or s3
	Directory string     `yaml:"directory"` // photo directory for the dir store
	BaseURL   string     `yaml:"baseurl"`   // URL prefix for dir store photos; file:// URLs when empty
	S3        S3Settings `yaml:"s3"`
}

// RedisSettings configures the redis sheet cache
type RedisSettings struct {
	Addr         string `yaml:"addr"`
	Password     string `yaml:"password"`
	PasswordFile string `yaml:"passwordfile"`
	DB           int    `yaml:"db"`
	KeyPrefix    string `yaml:"keyprefix"`
}

// CacheSettings configures the parsed-sheet cache
type CacheSettings struct {
	Type  string        `yaml:"type"` // none, memory or redis
	TTL   time.Duration `yaml:"ttl"`
	Redis RedisSettings `yaml:"redis"`
}

// ImporterSettings contains defaults for submission imports
type ImporterSettings struct {
	Campaign     string `yaml:"campaign"`     // campaign used when --campaign is not given
	TaxonomyFile string `yaml:"taxonomyfile"` // optional YAML registry of coral taxonomy
	DryRun       bool   `yaml:"dryrun"`
}

// MetricsSettings configures Prometheus metrics export
type MetricsSettings struct {
	TextfilePath string `yaml:"textfilepath"` // node_exporter textfile collector target, empty disables
}

// SentrySettings configures error telemetry
type SentrySettings struct {
	Enabled     bool   `yaml:"enabled"`
	DSN         string `yaml:"dsn"`
	DSNFile     string `yaml:"dsnfile"`
	Environment string `yaml:"environment"`
}

// Settings is the root configuration
type Settings struct {
	Debug    bool                 `yaml:"debug"`
	Database DatabaseSettings     `yaml:"database"`
	Photos   PhotoSettings        `yaml:"photos"`
	Cache    CacheSettings        `yaml:"cache"`
	Importer ImporterSettings     `yaml:"importer"`
	Logging  logger.LoggingConfig `yaml:"logging"`
	Metrics  MetricsSettings      `yaml:"metrics"`
	Sentry   SentrySettings       `yaml:"sentry"`
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads .env, the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := resolveSecrets(afero.NewOsFs(), settings); err != nil {
		return nil, fmt.Errorf("error resolving secrets: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// loadDotEnv loads a .env file from the working directory when present.
// Variables already set in the environment win.
func loadDotEnv() error {
	path := os.Getenv("REEFKB_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// initViper registers defaults, environment bindings and reads the config file
func initViper() error {
	viper.SetConfigType("yaml")
	setDefaultConfig()

	if err := bindEnvVars(); err != nil {
		return err
	}

	if explicit := os.Getenv(ConfigFileEnv); explicit != "" {
		viper.SetConfigFile(explicit)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", explicit, err)
		}
		return nil
	}

	viper.SetConfigName("config")
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	err = viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return createDefaultConfig(configPaths[0])
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}
	return nil
}

// createDefaultConfig writes the embedded default config to dir and reads it
func createDefaultConfig(dir string) error {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return fmt.Errorf("error reading embedded config: %w", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	GetLogger().Info("created default config file", logger.String("path", configPath))
	return viper.ReadInConfig()
}

// GetSettings returns the settings loaded by the last Load call
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SaveYAMLConfig writes settings to configPath through a temp file and rename.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}
	if err := os.Rename(tempFileName, configPath); err != nil {
		return fmt.Errorf("error replacing config file: %w", err)
	}
	return nil
}
