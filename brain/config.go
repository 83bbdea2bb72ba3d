package brain

import (
	"fmt"

	"github.com/hupe1980/antmesh/explore"
	"github.com/hupe1980/antmesh/grid"
	"github.com/hupe1980/antmesh/merge"
)

// Config holds the tuning constants of an ant.
type Config struct {
	GridSize           int `mapstructure:"grid_size" yaml:"grid_size"`
	AdultAge           int `mapstructure:"adult_age" yaml:"adult_age"`
	ThresholdIncrement int `mapstructure:"threshold_increment" yaml:"threshold_increment"`
	MaxThreshold       int `mapstructure:"max_threshold" yaml:"max_threshold"`
	ReportThreshold    int `mapstructure:"report_threshold" yaml:"report_threshold"`
	BasePatience       int `mapstructure:"base_patience" yaml:"base_patience"`
	PatienceStep       int `mapstructure:"patience_step" yaml:"patience_step"`
	ReplanWindow       int `mapstructure:"replan_window" yaml:"replan_window"`
	BootstrapWindow    int `mapstructure:"bootstrap_window" yaml:"bootstrap_window"`
}

// DefaultConfig returns the stock colony tuning.
func DefaultConfig() Config {
	return Config{
		GridSize:           grid.DefaultSize,
		AdultAge:           2,
		ThresholdIncrement: explore.DefaultConfig.Increment,
		MaxThreshold:       explore.DefaultConfig.MaxThreshold,
		ReportThreshold:    explore.DefaultConfig.ReportThreshold,
		BasePatience:       explore.DefaultConfig.BasePatience,
		PatienceStep:       explore.DefaultConfig.PatienceStep,
		ReplanWindow:       explore.DefaultConfig.ReplanWindow,
		BootstrapWindow:    merge.DefaultBootstrapWindow,
	}
}

// Validate rejects configurations the planners cannot run with.
func (c Config) Validate() error {
	switch {
	case c.GridSize < 3:
		return fmt.Errorf("brain: grid_size %d too small", c.GridSize)
	case c.AdultAge < 0:
		return fmt.Errorf("brain: adult_age %d is negative", c.AdultAge)
	case c.ThresholdIncrement <= 0:
		return fmt.Errorf("brain: threshold_increment must be positive, got %d", c.ThresholdIncrement)
	case c.MaxThreshold < 0:
		return fmt.Errorf("brain: max_threshold %d is negative", c.MaxThreshold)
	case c.PatienceStep < 0:
		return fmt.Errorf("brain: patience_step %d is negative", c.PatienceStep)
	}
	return nil
}

func (c Config) explorer() explore.Config {
	return explore.Config{
		Increment:       c.ThresholdIncrement,
		MaxThreshold:    c.MaxThreshold,
		ReportThreshold: c.ReportThreshold,
		BasePatience:    c.BasePatience,
		PatienceStep:    c.PatienceStep,
		ReplanWindow:    c.ReplanWindow,
	}
}
