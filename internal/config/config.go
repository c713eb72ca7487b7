// Package config defines the CLI configuration and loads it from YAML.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/loan-payoff/internal/calculator"
	"github.com/iwvelando/loan-payoff/pkg/constants"
	"github.com/iwvelando/loan-payoff/pkg/loans"
	"github.com/iwvelando/loan-payoff/pkg/validation"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for loan-payoff.
type Configuration struct {
	Logging LoggingConfig        `yaml:"logging,omitempty"`
	Output  OutputConfig         `yaml:"output,omitempty"`
	Limits  loans.Limits         `yaml:"limits,omitempty"`
	Cache   CacheConfig          `yaml:"cache,omitempty"`
	Loans   []calculator.Request `yaml:"loans"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
	// Schedule selects the schedule written in csv format: base or prepayment.
	Schedule string `yaml:"schedule,omitempty"`
	// HideSchedule limits pretty output to the summaries.
	HideSchedule bool `yaml:"hideSchedule,omitempty"`
}

// CacheConfig selects the result cache of a run.
type CacheConfig struct {
	Size         int           `yaml:"size,omitempty"`
	TTL          time.Duration `yaml:"ttl,omitempty"`
	RedisAddress string        `yaml:"redisAddress,omitempty"`
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
	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	// Unset limits take the defaults; an explicit termMultiplier of 0 still
	// disables the term-relative cap.
	defaults := loans.DefaultLimits()
	v.SetDefault("limits.maxPeriods", defaults.MaxPeriods)
	v.SetDefault("limits.termMultiplier", defaults.TermMultiplier)
	v.SetDefault("limits.epsilon", defaults.Epsilon)

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.ApplyDefaults()
	return &configuration, nil
}

// ApplyDefaults fills unset options.
func (c *Configuration) ApplyDefaults() {
	if c.Output.Schedule == "" {
		c.Output.Schedule = constants.ScheduleBase
	}
	if c.Cache.Size <= 0 {
		c.Cache.Size = constants.DefaultCacheSize
	}
	c.Limits = c.Limits.Normalize()
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{}
	for _, loan := range c.Requests() {
		validator.Loans = append(validator.Loans, validation.LoanInfo{
			Name:           loan.Name,
			Principal:      loan.Principal,
			InterestRate:   loan.InterestRate,
			Term:           loan.Term,
			ElapsedMonths:  loan.ElapsedMonths,
			CurrentBalance: loan.CurrentBalance,
			LumpSum:        loan.LumpSum,
			LumpSumMonth:   loan.LumpSumMonth,
			ExtraMonths:    loan.ExtraMonths,
			TargetMonths:   loan.TargetMonths,
		})
	}

	warnings := validator.ValidateAll()
	if c.Limits.TermMultiplier == 0 {
		warnings = append(warnings, fmt.Sprintf("Term multiplier disabled - slow payments run up to %d periods", c.Limits.MaxPeriods))
	}
	return warnings
}
