package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and configuration files to produce a Config.
// Precedence, lowest first: defaults, config file, flags, positional howmany.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	positional := flagSet.Args()
	if err := cmd.ValidateArgs(positional); err != nil {
		return nil, err
	}

	configPath := flagSet.Lookup("config").Value.String()
	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	settings := cfgViper.AllSettings()

	cfg := &Config{
		Howmany:    DefaultHowmany,
		Format:     FormatText,
		LogLevel:   "warn",
		ConfigFile: configPath,
		Tracing: TracingConfig{
			Protocol:   "grpc",
			SampleRate: 1.0,
		},
	}

	if err := applyConfigSettings(cfg, settings); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	if len(positional) == 1 {
		howmany, err := strconv.Atoi(strings.TrimSpace(positional[0]))
		if err != nil {
			return nil, fmt.Errorf("howmany: %q is not an integer", positional[0])
		}
		cfg.Howmany = howmany
	}

	return cfg, nil
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "howmany"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("howmany: %w", err)
		}
		cfg.Howmany = val
	}

	if raw, ok := lookupSetting(settings, "format"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("format: %w", err)
		}
		if val != "" {
			cfg.Format = Format(strings.ToLower(strings.TrimSpace(val)))
		}
	}

	if raw, ok := lookupSetting(settings, "thresholds"); ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("thresholds: %w", err)
		}
		cfg.Thresholds = val
	}

	if raw, ok := lookupSetting(settings, "baseline"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		cfg.Baseline = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "lockfile", "lock_file", "lock-file"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("lockFile: %w", err)
		}
		cfg.LockFile = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "loglevel", "log_level", "log-level"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("logLevel: %w", err)
		}
		if val != "" {
			cfg.LogLevel = val
		}
	}

	if raw, ok := lookupSetting(settings, "tracing"); ok {
		if err := applyTracingSettings(&cfg.Tracing, raw); err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
	}

	return nil
}

func applyTracingSettings(tc *TracingConfig, value interface{}) error {
	settings, err := toStringKeyMap(value)
	if err != nil {
		return err
	}

	if raw, ok := lookupSetting(settings, "endpoint"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
		tc.Endpoint = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(settings, "protocol"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("protocol: %w", err)
		}
		if val != "" {
			tc.Protocol = val
		}
	}
	if raw, ok := lookupSetting(settings, "servicename", "service_name", "service-name"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("serviceName: %w", err)
		}
		tc.ServiceName = val
	}
	if raw, ok := lookupSetting(settings, "samplerate", "sample_rate", "sample-rate"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return fmt.Errorf("sampleRate: %w", err)
		}
		tc.SampleRate = val
	}
	if raw, ok := lookupSetting(settings, "insecure"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("insecure: %w", err)
		}
		tc.Insecure = val
	}
	return nil
}
