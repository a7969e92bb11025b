// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the deal file.
package config

import (
	"fmt"

	"github.com/iwvelando/deal-underwriter/pkg/deal"
	"github.com/spf13/viper"
)

// Calculator variant names accepted in the deal file.
const (
	CalculatorUnderwriting = "underwriting"
	CalculatorBRRRR        = "brrrr"
	CalculatorSyndication  = "syndication"
)

// Configuration holds all configuration for deal-underwriter: the deal
// inputs for the selected calculator plus app-level settings.
type Configuration struct {
	Calculator string `json:"calculator" mapstructure:"calculator"`

	Underwriting *deal.UnderwritingInputs `json:"underwriting,omitempty" mapstructure:"underwriting"`
	BRRRR        *deal.BRRRRInputs        `json:"brrrr,omitempty" mapstructure:"brrrr"`
	Syndication  *deal.SyndicationInputs  `json:"syndication,omitempty" mapstructure:"syndication"`

	Sensitivity *SensitivityConfig `json:"sensitivity,omitempty" mapstructure:"sensitivity"`

	Logging LoggingConfig `json:"logging,omitempty" mapstructure:"logging"`
	Output  OutputConfig  `json:"output,omitempty" mapstructure:"output"`
	Store   StoreConfig   `json:"store,omitempty" mapstructure:"store"`
	Server  ServerConfig  `json:"server,omitempty" mapstructure:"server"`
}

// SensitivityConfig selects an optional sweep to run after the analysis.
type SensitivityConfig struct {
	Field         string    `mapstructure:"field"`
	Perturbations []float64 `mapstructure:"perturbations"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level"`      // debug, info, warn, error
	Format     string `mapstructure:"format"`     // json, console
	OutputFile string `mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format"` // pretty, csv, json
}

// StoreConfig selects the scenario persistence backend.
type StoreConfig struct {
	Backend   string `mapstructure:"backend"`   // memory, file, redis
	Directory string `mapstructure:"directory"` // file backend
	RedisAddr string `mapstructure:"redisAddr"` // redis backend
	RedisDB   int    `mapstructure:"redisDb"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Address     string `mapstructure:"address"`
	MaxBodySize int64  `mapstructure:"maxBodySize"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// SelectedInputs returns the input record for the configured calculator. A
// missing section is a caller contract violation.
func (c *Configuration) SelectedInputs() (interface{}, error) {
	switch c.Calculator {
	case CalculatorUnderwriting:
		if c.Underwriting == nil {
			return nil, fmt.Errorf("calculator is %q but no underwriting section is present", c.Calculator)
		}
		return *c.Underwriting, nil
	case CalculatorBRRRR:
		if c.BRRRR == nil {
			return nil, fmt.Errorf("calculator is %q but no brrrr section is present", c.Calculator)
		}
		return *c.BRRRR, nil
	case CalculatorSyndication:
		if c.Syndication == nil {
			return nil, fmt.Errorf("calculator is %q but no syndication section is present", c.Calculator)
		}
		return *c.Syndication, nil
	}
	return nil, fmt.Errorf("unknown calculator %q (expected %s, %s, or %s)",
		c.Calculator, CalculatorUnderwriting, CalculatorBRRRR, CalculatorSyndication)
}
