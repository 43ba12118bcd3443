// Package config loads coffee configuration from defaults, an optional
// config.yaml, a .env file, COFFEE_* environment variables and command flags.
package config

import (
	"io"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g.
// COFFEE_GENERATE_ROWS.
const EnvPrefix = "COFFEE"

// Config holds the full application configuration.
type Config struct {
	Generate  GenerateConfig  `yaml:"generate" mapstructure:"generate"`
	Visualize VisualizeConfig `yaml:"visualize" mapstructure:"visualize"`
	Inspect   InspectConfig   `yaml:"inspect" mapstructure:"inspect"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// GenerateConfig configures the synthetic dataset generator.
type GenerateConfig struct {
	Input   string `yaml:"input" mapstructure:"input"`
	Output  string `yaml:"output" mapstructure:"output"`
	Rows    int    `yaml:"rows" mapstructure:"rows"`
	Variant string `yaml:"variant" mapstructure:"variant"`
	// Seed 0 draws from a time-based source.
	Seed       int64    `yaml:"seed" mapstructure:"seed"`
	Colors     []string `yaml:"colors" mapstructure:"colors"`
	BoundsFile string   `yaml:"bounds_file" mapstructure:"bounds_file"`
}

// VisualizeConfig configures the results visualizer.
type VisualizeConfig struct {
	LinearPredictions string `yaml:"linear_predictions" mapstructure:"linear_predictions"`
	TreePredictions   string `yaml:"tree_predictions" mapstructure:"tree_predictions"`
	LinearWeights     string `yaml:"linear_weights" mapstructure:"linear_weights"`
	TreeImportances   string `yaml:"tree_importances" mapstructure:"tree_importances"`
	OutDir            string `yaml:"out_dir" mapstructure:"out_dir"`
	Format            string `yaml:"format" mapstructure:"format"`
}

// InspectConfig configures the dataset summary.
type InspectConfig struct {
	Input     string `yaml:"input" mapstructure:"input"`
	BatchSize int    `yaml:"batch_size" mapstructure:"batch_size"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Flags maps config keys (e.g. "generate.rows") to the command flags that
// override them.
type Flags map[string]*pflag.Flag

// Load reads configuration. path names an explicit config file; when empty a
// config.yaml in the working directory is used if present. Flags that were
// set on the command line take precedence over every other source.
func Load(path string, flags Flags) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("generate.input", "coffee.csv")
	v.SetDefault("generate.output", "generated_coffee.csv")
	v.SetDefault("generate.rows", 99010)
	v.SetDefault("generate.variant", "extended")
	v.SetDefault("generate.seed", 0)
	v.SetDefault("generate.colors", []string{})
	v.SetDefault("generate.bounds_file", "")
	v.SetDefault("visualize.linear_predictions", "linear_predictions.csv")
	v.SetDefault("visualize.tree_predictions", "tree_predictions.csv")
	v.SetDefault("visualize.linear_weights", "linear_weights.csv")
	v.SetDefault("visualize.tree_importances", "tree_importances.csv")
	v.SetDefault("visualize.out_dir", "plots")
	v.SetDefault("visualize.format", "png")
	v.SetDefault("inspect.input", "generated_coffee.csv")
	v.SetDefault("inspect.batch_size", 32)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	for key, f := range flags {
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, eris.Wrapf(err, "config: bind flag %s", key)
		}
	}

	// Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// WriteYAML writes the effective configuration as YAML.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return eris.Wrap(err, "config: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "config: encode yaml")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
