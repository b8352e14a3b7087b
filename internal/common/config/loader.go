// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/rajeee/loadflex/internal/common/errors"
	"github.com/rajeee/loadflex/internal/common/logger"
)

// Load reads config.yaml from the usual search paths with env override.
func Load(log logger.Logger) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LOADFLEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	return finishLoad(v, log)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string, log logger.Logger) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("LOADFLEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finishLoad(v, log)
}

func finishLoad(v *viper.Viper, log logger.Logger) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := processOffsetArguments(&cfg, log); err != nil {
		return nil, err
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// processOffsetArguments enforces the cross-mode field policy: fields belonging
// to the opposite mode are ignored with a warning when the active mode is
// absolute, but fatal when the active mode is relative.
func processOffsetArguments(cfg *Config, log logger.Logger) error {
	switch cfg.Offset.Type {
	case OffsetTypeAbsolute:
		if stray := cfg.Offset.SuppliedRelativeFields(); len(stray) > 0 {
			log.Warn("relative offset inputs are ignored since offset type is absolute", map[string]interface{}{
				"fields": stray,
			})
			cfg.Offset.Relative = RelativeOffset{}
			for i := range cfg.Offset.Timing {
				cfg.Offset.Timing[i].Relative = nil
			}
		}
	case OffsetTypeRelative:
		if stray := cfg.Offset.SuppliedAbsoluteFields(); len(stray) > 0 {
			return apperrors.NewConfigurationInvalidError(fmt.Sprintf(
				"these inputs are not allowed (%s) since offset type is relative", strings.Join(stray, ", ")))
		}
	}
	return nil
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "loadflex"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Generator.Command == "" {
		cfg.Generator.Command = "openstudio"
	}
	if cfg.Generator.Script == "" {
		cfg.Generator.Script = "resources/create_setpoint_schedules.rb"
	}

	if cfg.Schedule.StartWeekday == "" {
		cfg.Schedule.StartWeekday = "monday"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	for i := range cfg.Offset.Timing {
		if cfg.Offset.Timing[i].Days == "" {
			cfg.Offset.Timing[i].Days = "all"
		}
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	switch cfg.Offset.Type {
	case OffsetTypeRelative, OffsetTypeAbsolute:
	default:
		return apperrors.NewConfigurationInvalidError(fmt.Sprintf(
			"offset.type must be %q or %q, got %q", OffsetTypeRelative, OffsetTypeAbsolute, cfg.Offset.Type))
	}

	if _, err := cfg.Schedule.StartDay(); err != nil {
		return apperrors.NewConfigurationInvalidError(fmt.Sprintf("schedule.start_weekday: %s", err))
	}

	for i, w := range cfg.Offset.Timing {
		if w.StartHour < 0 || w.StartHour > 23 {
			return apperrors.NewConfigurationInvalidError(fmt.Sprintf(
				"timing window %d: start_hour must be in [0, 23], got %d", i, w.StartHour))
		}
		if w.DurationHours < 0 {
			return apperrors.NewConfigurationInvalidError(fmt.Sprintf(
				"timing window %d: duration_hours must not be negative, got %d", i, w.DurationHours))
		}
		switch w.Days {
		case "all", "weekdays", "weekends":
		default:
			return apperrors.NewConfigurationInvalidError(fmt.Sprintf(
				"timing window %d: days must be all, weekdays or weekends, got %q", i, w.Days))
		}
	}

	return nil
}
