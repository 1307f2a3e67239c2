package config

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "yahtzee"

// Defaults for every knob. Settings resolve in the usual order: flag,
// then YAHTZEE_* environment variable, then default.
var defaults = map[string]any{
	"data-path":      "./data",
	"table-file":     "values.dat",
	"threads":        0, // 0 means one per CPU
	"debug":          false,
	"cpu-profile":    "",
	"mem-profile":    "",
	"sim-iterations": 20000,
	"sim-seed":       0,
}

type Config struct {
	v *viper.Viper
}

// DefaultConfig returns a config with every setting at its default.
func DefaultConfig() Config {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return Config{v: v}
}

// Load parses command-line arguments over the defaults.
func (c *Config) Load(args []string) error {
	if c.v == nil {
		*c = DefaultConfig()
	}
	fs := pflag.NewFlagSet("yahtzee", pflag.ContinueOnError)
	fs.String("data-path", defaults["data-path"].(string), "directory holding value table files")
	fs.String("table-file", defaults["table-file"].(string), "value table filename")
	fs.Int("threads", defaults["threads"].(int), "worker threads per induction level; 0 = one per CPU")
	fs.Bool("debug", defaults["debug"].(bool), "debug logging")
	fs.String("cpu-profile", "", "write a CPU profile to this file")
	fs.String("mem-profile", "", "write a memory profile to this file")
	fs.Int("sim-iterations", defaults["sim-iterations"].(int), "number of Monte Carlo games")
	fs.Int("sim-seed", defaults["sim-seed"].(int), "RNG seed for simulation; 0 = random")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.v.BindPFlags(fs)
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// AllSettings returns the resolved settings, for logging at startup.
func (c *Config) AllSettings() map[string]any {
	return c.v.AllSettings()
}

// TableFilePath is the resolved location of the value table file.
func (c *Config) TableFilePath() string {
	return filepath.Join(c.GetString("data-path"), c.GetString("table-file"))
}

// AdjustRelativePaths anchors a relative data path at the executable's
// directory, so the binary finds its data files no matter where it is
// invoked from.
func (c *Config) AdjustRelativePaths(exPath string) {
	dataPath := c.GetString("data-path")
	if !filepath.IsAbs(dataPath) {
		adjusted := filepath.Join(exPath, dataPath)
		log.Debug().Str("data-path", adjusted).Msg("adjusted-data-path")
		c.v.Set("data-path", adjusted)
	}
}
