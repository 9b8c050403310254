package pool

import (
	"fmt"
	"runtime"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds the pool sizing knobs, loadable from a YAML file under
// the "worker_pool" key.
type Config struct {
	// Workers is the number of worker goroutines.
	Workers int `mapstructure:"workers"`

	// Buffer is the capacity of the thunk queue.
	Buffer int `mapstructure:"buffer"`
}

// DefaultConfig returns the sizing used when no file is provided.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.NumCPU(),
		Buffer:  64,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.Buffer < 0 {
		c.Buffer = def.Buffer
	}
	return c
}

// fileConfig is the file's root document.
type fileConfig struct {
	Pool Config `mapstructure:"worker_pool"`
}

// Load reads the pool config from the YAML file at confPath, and keeps
// watching it: on every change, the file is re-read and the new Config
// is passed to onChanged, if it's not nil.
//
// Note that a running Pool doesn't resize itself. The onChanged hook is
// the place to build and swap in a new Pool, or to ignore the change.
func Load(confPath string, onChanged func(c Config)) (Config, error) {
	v := viper.New()
	v.SetConfigFile(confPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("viper read in config: %w", err)
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return Config{}, fmt.Errorf("viper unmarshal: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var next fileConfig
		if err := v.Unmarshal(&next); err != nil {
			return
		}
		if onChanged != nil {
			onChanged(next.Pool)
		}
	})
	v.WatchConfig()

	return fc.Pool, nil
}
