// Package config handles loading and hot-reloading configuration,
// including the heuristic tuning constants used by the parsing engines.
package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the top-level specmill configuration.
type Config struct {
	Defaults   Defaults   `mapstructure:"defaults" yaml:"defaults"`
	Heuristics Heuristics `mapstructure:"heuristics" yaml:"heuristics"`
}

// Defaults holds general pipeline settings. An empty OutputDir means
// runs land under the specmill home directory's output layout.
type Defaults struct {
	OutputDir    string `mapstructure:"output_dir" yaml:"output_dir"`
	TOCScanPages int    `mapstructure:"toc_scan_pages" yaml:"toc_scan_pages"`
}

// Heuristics collects the tunable constants behind confidence scoring and
// content classification. The values are heuristic knobs, not correctness
// contracts; defaults reproduce the stock behavior.
type Heuristics struct {
	// ToC entry confidence
	TOCBaseConfidence float64 `mapstructure:"toc_base_confidence" yaml:"toc_base_confidence"`
	NumericIDBonus    float64 `mapstructure:"numeric_id_bonus" yaml:"numeric_id_bonus"`
	PageCenter        int     `mapstructure:"page_center" yaml:"page_center"`
	PageDivisor       float64 `mapstructure:"page_divisor" yaml:"page_divisor"`
	TitleBonusMin     int     `mapstructure:"title_bonus_min" yaml:"title_bonus_min"`
	TitleBonusMax     int     `mapstructure:"title_bonus_max" yaml:"title_bonus_max"`
	TitlePenaltyMin   int     `mapstructure:"title_penalty_min" yaml:"title_penalty_min"`
	TitlePenaltyMax   int     `mapstructure:"title_penalty_max" yaml:"title_penalty_max"`

	// Match validation bounds
	MaxPageNumber int `mapstructure:"max_page_number" yaml:"max_page_number"`

	// Section confidence and content typing
	SectionBaseConfidence float64 `mapstructure:"section_base_confidence" yaml:"section_base_confidence"`
	TextChunkSize         int     `mapstructure:"text_chunk_size" yaml:"text_chunk_size"`
	TypeScoreCap          int     `mapstructure:"type_score_cap" yaml:"type_score_cap"`
	MixedTypeThreshold    int     `mapstructure:"mixed_type_threshold" yaml:"mixed_type_threshold"`

	// Quality red flags
	MinWordCount     int     `mapstructure:"min_word_count" yaml:"min_word_count"`
	MinContentLength int     `mapstructure:"min_content_length" yaml:"min_content_length"`
	MaxNonASCIIRatio float64 `mapstructure:"max_non_ascii_ratio" yaml:"max_non_ascii_ratio"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Defaults: Defaults{
			OutputDir:    "",
			TOCScanPages: 10,
		},
		Heuristics: Heuristics{
			TOCBaseConfidence:     0.7,
			NumericIDBonus:        0.2,
			PageCenter:            50,
			PageDivisor:           1000,
			TitleBonusMin:         5,
			TitleBonusMax:         100,
			TitlePenaltyMin:       3,
			TitlePenaltyMax:       150,
			MaxPageNumber:         5000,
			SectionBaseConfidence: 0.6,
			TextChunkSize:         50,
			TypeScoreCap:          5,
			MixedTypeThreshold:    2,
			MinWordCount:          10,
			MinContentLength:      50,
			MaxNonASCIIRatio:      0.1,
		},
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("defaults", defaults.Defaults)
	viper.SetDefault("heuristics", defaults.Heuristics)

	// Environment variables with SPECMILL_ prefix
	viper.SetEnvPrefix("SPECMILL")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.specmill")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# specmill configuration
# Heuristic values tune confidence scoring and content classification.
# Defaults reproduce stock behavior; change with care.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
