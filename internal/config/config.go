// Package config loads pawprint's run configuration from, in order of
// precedence: command-line flags, environment variables, .env files,
// a YAML config file, and defaults.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pawprint/pawprint/pkg/errors"
	"github.com/pawprint/pawprint/pkg/normalize"
	"github.com/pawprint/pawprint/pkg/reconcile"
	"github.com/pawprint/pawprint/pkg/score"
)

// Paths locates the input tables and the snapshot target.
type Paths struct {
	// Candidates is the harvested feed: a YAML file or a directory of
	// them.
	Candidates string `mapstructure:"candidates" yaml:"candidates"`
	Aliases    string `mapstructure:"aliases" yaml:"aliases"`
	Overrides  string `mapstructure:"overrides" yaml:"overrides"`
	Allowlist  string `mapstructure:"allowlist" yaml:"allowlist"`
	// Output is the snapshot target directory.
	Output string `mapstructure:"output" yaml:"output"`
}

// Engine tunes the reconciliation pass.
type Engine struct {
	Weights             score.Weights          `mapstructure:"weights" yaml:"weights"`
	StopWords           []string               `mapstructure:"stop_words" yaml:"stop_words"`
	SimilarityThreshold float64                `mapstructure:"similarity_threshold" yaml:"similarity_threshold"`
	PriceBuckets        reconcile.PriceBuckets `mapstructure:"price_buckets" yaml:"price_buckets"`
	Workers             int                    `mapstructure:"workers" yaml:"workers"`
	// ApprovedMerges lists product keys whose collisions a human has
	// confirmed.
	ApprovedMerges []string `mapstructure:"approved_merges" yaml:"approved_merges"`
	// BadSlugs extends the incomplete-slug guard beyond stems derived
	// from the alias map.
	BadSlugs []string `mapstructure:"bad_slugs" yaml:"bad_slugs"`
}

// Config is the full run configuration.
type Config struct {
	Paths  Paths  `mapstructure:"paths" yaml:"paths"`
	Engine Engine `mapstructure:"engine" yaml:"engine"`

	// AllowPending publishes the preview even with guard violations.
	AllowPending bool `mapstructure:"allow_pending" yaml:"allow_pending"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Load reads configuration from all sources. An empty configFile means
// search the working directory and home directory for .pawprint.yaml.
func Load(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("PAWPRINT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".pawprint")
		// A missing config file is fine; defaults and env cover it.
		_ = v.ReadInConfig()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError("config", "unmarshaling configuration", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.candidates", "data/candidates")
	v.SetDefault("paths.aliases", "data/aliases.yaml")
	v.SetDefault("paths.overrides", "data/overrides.yaml")
	v.SetDefault("paths.allowlist", "data/allowlist.yaml")
	v.SetDefault("paths.output", "published")

	weights := score.DefaultWeights()
	v.SetDefault("engine.weights.kcal", weights.Kcal)
	v.SetDefault("engine.weights.protein", weights.Protein)
	v.SetDefault("engine.weights.fat", weights.Fat)
	v.SetDefault("engine.weights.ingredients", weights.Ingredients)
	v.SetDefault("engine.weights.image", weights.Image)
	v.SetDefault("engine.stop_words", normalize.DefaultStopWords())
	v.SetDefault("engine.similarity_threshold", reconcile.DefaultSimilarityThreshold)

	buckets := reconcile.DefaultPriceBuckets()
	v.SetDefault("engine.price_buckets.low", buckets.Low)
	v.SetDefault("engine.price_buckets.high", buckets.High)
	v.SetDefault("engine.workers", reconcile.DefaultWorkers)

	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")
}

// EngineOptions converts the engine section into reconciliation engine
// options.
func (c *Config) EngineOptions() []reconcile.Option {
	return []reconcile.Option{
		reconcile.WithScorer(score.New(c.Engine.Weights)),
		reconcile.WithStopWords(c.Engine.StopWords),
		reconcile.WithSimilarityThreshold(c.Engine.SimilarityThreshold),
		reconcile.WithPriceBuckets(c.Engine.PriceBuckets),
		reconcile.WithWorkers(c.Engine.Workers),
	}
}

// loadEnvFiles loads .env files; .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
