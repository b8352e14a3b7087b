// internal/common/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"
)

// OffsetType selects how setpoint offsets are interpreted.
type OffsetType string

const (
	OffsetTypeRelative OffsetType = "relative"
	OffsetTypeAbsolute OffsetType = "absolute"
)

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Offset    OffsetInputs    `mapstructure:"offset"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// OffsetInputs is the resolved user intent for one run. Exactly one of
// Relative/Absolute is consulted, selected by Type.
type OffsetInputs struct {
	UpgradeName string         `mapstructure:"upgrade_name"`
	Type        OffsetType     `mapstructure:"type"`
	Relative    RelativeOffset `mapstructure:"relative"`
	Absolute    AbsoluteOffset `mapstructure:"absolute"`
	Timing      []TimingWindow `mapstructure:"timing"`
}

// RelativeOffset holds additive deltas in degrees. A nil field leaves that
// axis unchanged.
type RelativeOffset struct {
	HeatingDelta *float64 `mapstructure:"heating_delta"`
	CoolingDelta *float64 `mapstructure:"cooling_delta"`
}

// AbsoluteOffset holds replacement setpoints in degrees. A nil field leaves
// that axis unchanged.
type AbsoluteOffset struct {
	HeatingSetpoint *float64 `mapstructure:"heating_setpoint"`
	CoolingSetpoint *float64 `mapstructure:"cooling_setpoint"`
}

// TimingWindow defines when an offset is active: a start hour-of-day, a
// duration in hours (may roll past midnight) and a day-of-week predicate.
// A window may carry its own offset parameters; nil falls back to the
// run-level parameters of the active mode.
type TimingWindow struct {
	StartHour     int             `mapstructure:"start_hour"`
	DurationHours int             `mapstructure:"duration_hours"`
	Days          string          `mapstructure:"days"` // all | weekdays | weekends
	Relative      *RelativeOffset `mapstructure:"relative"`
	Absolute      *AbsoluteOffset `mapstructure:"absolute"`
}

// AppliesTo reports whether the window's day predicate matches the weekday.
func (w TimingWindow) AppliesTo(day time.Weekday) bool {
	switch w.Days {
	case "weekdays":
		return day != time.Saturday && day != time.Sunday
	case "weekends":
		return day == time.Saturday || day == time.Sunday
	default:
		return true
	}
}

// Contains reports whether the hour-of-day falls inside [start, start+duration),
// modulo day rollover.
func (w TimingWindow) Contains(hour int) bool {
	if w.DurationHours <= 0 {
		return false
	}
	if w.DurationHours >= 24 {
		return true
	}
	return ((hour-w.StartHour)+24)%24 < w.DurationHours
}

// RelativeFor returns the relative parameters effective for a window.
func (in OffsetInputs) RelativeFor(w TimingWindow) RelativeOffset {
	if w.Relative != nil {
		return *w.Relative
	}
	return in.Relative
}

// AbsoluteFor returns the absolute parameters effective for a window.
func (in OffsetInputs) AbsoluteFor(w TimingWindow) AbsoluteOffset {
	if w.Absolute != nil {
		return *w.Absolute
	}
	return in.Absolute
}

// SuppliedRelativeFields lists relative-mode fields present in the raw input,
// at run level or on any window.
func (in OffsetInputs) SuppliedRelativeFields() []string {
	var fields []string
	if in.Relative.HeatingDelta != nil {
		fields = append(fields, "relative.heating_delta")
	}
	if in.Relative.CoolingDelta != nil {
		fields = append(fields, "relative.cooling_delta")
	}
	for i, w := range in.Timing {
		if w.Relative != nil {
			fields = append(fields, fmt.Sprintf("timing[%d].relative", i))
		}
	}
	return fields
}

// SuppliedAbsoluteFields lists absolute-mode fields present in the raw input,
// at run level or on any window.
func (in OffsetInputs) SuppliedAbsoluteFields() []string {
	var fields []string
	if in.Absolute.HeatingSetpoint != nil {
		fields = append(fields, "absolute.heating_setpoint")
	}
	if in.Absolute.CoolingSetpoint != nil {
		fields = append(fields, "absolute.cooling_setpoint")
	}
	for i, w := range in.Timing {
		if w.Absolute != nil {
			fields = append(fields, fmt.Sprintf("timing[%d].absolute", i))
		}
	}
	return fields
}

type GeneratorConfig struct {
	Command string   `mapstructure:"command"`
	Script  string   `mapstructure:"script"`
	Args    []string `mapstructure:"args"`
}

type ScheduleConfig struct {
	StartWeekday string `mapstructure:"start_weekday"`
}

// StartDay resolves the configured simulation-year start weekday.
func (s ScheduleConfig) StartDay() (time.Weekday, error) {
	names := map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
	day, ok := names[strings.ToLower(s.StartWeekday)]
	if !ok {
		return time.Monday, fmt.Errorf("unknown weekday %q", s.StartWeekday)
	}
	return day, nil
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
