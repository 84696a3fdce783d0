// Package config supplies CLI defaults from an optional .schedloom.yaml,
// looked up in the working directory and the home directory. Values in the
// project file always win over config defaults.
package config

import (
	"github.com/spf13/viper"
)

// Config holds scheduler defaults applied when a project file omits them.
type Config struct {
	WorkDays []int          `mapstructure:"work_days"` // weekday indices, 0 = Sunday
	Holidays []string       `mapstructure:"holidays"`  // YYYY-MM-DD
	Color    bool           `mapstructure:"color"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

// SnapshotConfig controls persistence of computed schedules.
type SnapshotConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// Load reads .schedloom.yaml if present and fills in defaults. A missing
// config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".schedloom")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetDefault("work_days", []int{1, 2, 3, 4, 5}) // Monday through Friday
	v.SetDefault("color", true)
	v.SetDefault("snapshot.enabled", true)
	v.SetDefault("snapshot.dir", ".schedloom")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
