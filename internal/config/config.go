package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"lcdpong/internal/netwrk"
)

var Config Configuration

type Configuration struct {
	// debug, info, warn or error
	LogLevel string `mapstructure:"log_level"`
	// Interval of the simulated vsync interrupt.
	FramePeriod  time.Duration `mapstructure:"frame_period"`
	DoubleBuffer bool          `mapstructure:"double_buffer"`
	ShowFPS      bool          `mapstructure:"show_fps"`
	Guidelines   bool          `mapstructure:"guidelines"`

	Network struct {
		// Address the authoritative server binds.
		ListenAddr string `mapstructure:"listen_addr"`
		// Address a networked client sends to.
		ServerAddr string `mapstructure:"server_addr"`
		// Address of the echo diagnostic socket.
		EchoAddr string `mapstructure:"echo_addr"`
		// Session clients must present, empty means the server picks one.
		Session string `mapstructure:"session"`
	} `mapstructure:"network"`
}

const envVarPrefix = "LCDPONG"

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("frame_period", time.Second/60)
	v.SetDefault("double_buffer", true)
	v.SetDefault("show_fps", false)
	v.SetDefault("guidelines", false)
	v.SetDefault("network.listen_addr", ":2019")
	v.SetDefault("network.server_addr", "127.0.0.1:2019")
	v.SetDefault("network.echo_addr", fmt.Sprintf(":%d", netwrk.EchoPort))
	v.SetDefault("network.session", "")
}

// LoadConfig reads the JSON config at path, config.json when empty. A missing
// file leaves the defaults in place. Every key can be overridden from the
// environment, network.listen_addr as LCDPONG_NETWORK_LISTEN_ADDR.
func LoadConfig(path string) error {
	if path == "" {
		path = "config.json"
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(envVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
		slog.Info("failed to open config at path provided, using default config instead", slog.String("path", path))
	}

	c := Configuration{}
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("decoding config %s: %w", path, err)
	}
	if c.FramePeriod <= 0 {
		return fmt.Errorf("frame_period must be positive, got %s", c.FramePeriod)
	}

	Config = c
	return nil
}

// Level parses the configured log level.
func (c Configuration) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("bad log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
