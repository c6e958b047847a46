// Package config reads the ncpost configuration: defaults, then a TOML file,
// then NCPOST_ environment variables, then command line flags.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/leftmike/ncpost/dialect"
	"github.com/leftmike/ncpost/errors"
)

const (
	EnvPrefix = "NCPOST"
	FileName  = "ncpost"
)

type Config struct {
	PostProcessor string   `mapstructure:"post_processor" toml:"post_processor"`
	Profiles      []string `mapstructure:"profiles" toml:"profiles"`
	Output        string   `mapstructure:"output" toml:"output"`

	Log     Log     `mapstructure:"log" toml:"log"`
	Program Program `mapstructure:"program" toml:"program"`
	Cycles  Cycles  `mapstructure:"cycles" toml:"cycles"`
}

type Log struct {
	JSON  bool   `mapstructure:"json" toml:"json"`
	Level string `mapstructure:"level" toml:"level"`
}

// Program configures the program_begin and program_end framing of a post
// processed tool path.
type Program struct {
	ID      int    `mapstructure:"id" toml:"id"`
	Comment string `mapstructure:"comment" toml:"comment"`
	Frame   bool   `mapstructure:"frame" toml:"frame"`
}

type Cycles struct {
	SkipIncomplete bool `mapstructure:"skip_incomplete" toml:"skip_incomplete"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("post_processor", "linuxcnc")
	v.SetDefault("profiles", []string{})
	v.SetDefault("output", "-")

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "warn")

	v.SetDefault("program.id", 1)
	v.SetDefault("program.comment", "")
	v.SetDefault("program.frame", false)

	v.SetDefault("cycles.skip_incomplete", false)
}

// New returns a viper instance with defaults and environment bindings that
// has read path, or, when path is empty, the first ncpost.toml found in the
// current directory or the user config directory.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config file %s", path)
		}
		return v, nil
	}

	v.SetConfigName(FileName)
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "ncpost"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "config file")
		}
	}
	return v, nil
}

func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	return &c, nil
}

// Options returns the dialect options c selects.
func (c *Config) Options() dialect.Options {
	return dialect.Options{SkipIncompleteCycles: c.Cycles.SkipIncomplete}
}

// Show writes c as TOML.
func (c *Config) Show(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
