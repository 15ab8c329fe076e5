package store

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config exposes the resolved storage locations.
type Config interface {
	// DBPath is the sqlite database file backing program data.
	DBPath() string
	// PrefsPath is the directory backing UI preference state.
	PrefsPath() string
}

// LoadConfig resolves configuration from an optional .repbook file, the
// REPBOOK_* environment, and built-in defaults, in that order of precedence.
func LoadConfig() (Config, error) {
	viper.SetDefault("db", "~/.repbook/repbook.db")
	viper.SetDefault("prefs", "~/.repbook/prefs")
	viper.SetConfigName(".repbook") // .yaml is implicit
	viper.SetEnvPrefix("REPBOOK")
	viper.AutomaticEnv()

	if override := os.Getenv("REPBOOK_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	db, err := homedir.Expand(viper.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("store: expand db path: %w", err)
	}
	prefs, err := homedir.Expand(viper.GetString("prefs"))
	if err != nil {
		return nil, fmt.Errorf("store: expand prefs path: %w", err)
	}
	return &fileConfig{DB: db, Prefs: prefs}, nil
}

type fileConfig struct {
	DB    string `json:"db"`
	Prefs string `json:"prefs"`
}

func (f *fileConfig) DBPath() string    { return f.DB }
func (f *fileConfig) PrefsPath() string { return f.Prefs }
