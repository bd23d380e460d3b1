package common

import (
	"strings"

	"github.com/pingcap/errors"
	"github.com/spf13/viper"
)

var LogLevelSetting LogLevel = INFO | WARN | ERROR | FATAL
var EnableDebug bool = false

const (
	// rows per record batch read from a columnar file
	DefaultBatchSize = 1024
	// max rows per row group when writing columnar files
	DefaultRowGroupLength = 64 * 1024
	// prefix of environment variables overriding config keys
	EnvPrefix = "SAMEHADA_QE"
)

type ColumnConfig struct {
	Name     string `mapstructure:"name"`
	Type     string `mapstructure:"type"`
	Nullable bool   `mapstructure:"nullable"`
}

type TableConfig struct {
	Name string `mapstructure:"name"`
	Path string `mapstructure:"path"`
	// when empty, columns are probed from the file at Path
	Columns []ColumnConfig `mapstructure:"columns"`
}

type EngineConfig struct {
	BatchSize int           `mapstructure:"batch_size"`
	LogLevel  string        `mapstructure:"log_level"`
	Debug     bool          `mapstructure:"debug"`
	Tables    []TableConfig `mapstructure:"tables"`
}

func NewDefaultConfig() *EngineConfig {
	return &EngineConfig{
		BatchSize: DefaultBatchSize,
		LogLevel:  "info",
		Tables:    make([]TableConfig, 0),
	}
}

func LoadConfig(path string) (*EngineConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("batch_size", DefaultBatchSize)
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Annotate(err, "read config")
	}

	cfg := NewDefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Annotate(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *EngineConfig) Validate() error {
	if c.BatchSize <= 0 {
		return errors.Errorf("batch_size must be positive: %d", c.BatchSize)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(c.Tables))
	for _, t := range c.Tables {
		if t.Name == "" {
			return errors.New("table entry without name")
		}
		if _, ok := seen[t.Name]; ok {
			return errors.Errorf("table %s is defined twice", t.Name)
		}
		seen[t.Name] = struct{}{}
		if t.Path == "" && len(t.Columns) == 0 {
			return errors.Errorf("table %s needs a path or a column list", t.Name)
		}
	}
	return nil
}

// Apply pushes process-wide settings (log mask, debug flag) from the config.
func (c *EngineConfig) Apply() error {
	mask, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return err
	}
	LogLevelSetting = mask
	EnableDebug = c.Debug
	return nil
}
