// Package commands implements loadeqviz's CLI subcommands.
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/PeterZhouSZ/Equalizer"
)

// fileConfig mirrors loadeq.Config for YAML loading via viper, following
// the mapstructure-tagged nested-struct pattern of the pack's
// configuration loaders.
type fileConfig struct {
	Mode      string  `mapstructure:"mode"`
	Damping   float64 `mapstructure:"damping"`
	BoundaryW int     `mapstructure:"boundary_w"`
	BoundaryH int     `mapstructure:"boundary_h"`
	BoundaryF float64 `mapstructure:"boundary_f"`
	Frozen    bool    `mapstructure:"frozen"`
}

// loadConfig builds a loadeq.Config from loadeq.DefaultConfig, a YAML file
// (if configPath is non-empty), and flag overrides, in that precedence
// order (flags win). modeFlag uses "" for "not set by the user"; each
// other flag value applies only when its *Set argument is true.
func loadConfig(configPath, modeFlag string, dampingFlag float64, dampingSet bool, boundaryW, boundaryH int, boundarySet bool, boundaryF float64, boundaryFSet bool, frozenFlag bool, frozenSet bool) (loadeq.Config, error) {
	cfg := loadeq.DefaultConfig()

	if configPath != "" {
		v := viper.New()
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return loadeq.Config{}, fmt.Errorf("loadeqviz: read config %s: %w", configPath, err)
		}
		var fc fileConfig
		if err := v.Unmarshal(&fc); err != nil {
			return loadeq.Config{}, fmt.Errorf("loadeqviz: parse config %s: %w", configPath, err)
		}
		if fc.Mode != "" {
			m, err := parseMode(fc.Mode)
			if err != nil {
				return loadeq.Config{}, err
			}
			cfg.Mode = m
		}
		if fc.Damping != 0 {
			cfg.Damping = fc.Damping
		}
		if fc.BoundaryW != 0 || fc.BoundaryH != 0 {
			cfg.Boundary2i = [2]int{fc.BoundaryW, fc.BoundaryH}
		}
		if fc.BoundaryF != 0 {
			cfg.Boundaryf = fc.BoundaryF
		}
		cfg.Frozen = fc.Frozen
	}

	if modeFlag != "" {
		m, err := parseMode(modeFlag)
		if err != nil {
			return loadeq.Config{}, err
		}
		cfg.Mode = m
	}
	if dampingSet {
		cfg.Damping = dampingFlag
	}
	if boundarySet {
		cfg.Boundary2i = [2]int{boundaryW, boundaryH}
	}
	if boundaryFSet {
		cfg.Boundaryf = boundaryF
	}
	if frozenSet {
		cfg.Frozen = frozenFlag
	}

	if err := cfg.Validate(); err != nil {
		return loadeq.Config{}, err
	}
	return cfg, nil
}

func parseMode(s string) (loadeq.Mode, error) {
	switch strings.ToLower(s) {
	case "2d":
		return loadeq.Mode2D, nil
	case "vertical":
		return loadeq.ModeVertical, nil
	case "horizontal":
		return loadeq.ModeHorizontal, nil
	case "db":
		return loadeq.ModeDB, nil
	default:
		return 0, fmt.Errorf("loadeqviz: unknown mode %q (want 2d, vertical, horizontal, or db)", s)
	}
}
