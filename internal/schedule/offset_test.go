// internal/schedule/offset_test.go
package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajeee/loadflex/internal/common/config"
	"github.com/rajeee/loadflex/internal/common/errors"
	"github.com/rajeee/loadflex/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func f(v float64) *float64 {
	return &v
}

func flatSchedule(steps int, heating, cooling float64) Setpoints {
	s := Setpoints{
		Heating: make([]float64, steps),
		Cooling: make([]float64, steps),
	}
	for t := 0; t < steps; t++ {
		s.Heating[t] = heating
		s.Cooling[t] = cooling
	}
	return s
}

func relativeInputs(heatingDelta, coolingDelta *float64, windows ...config.TimingWindow) config.OffsetInputs {
	return config.OffsetInputs{
		UpgradeName: "test-upgrade",
		Type:        config.OffsetTypeRelative,
		Relative: config.RelativeOffset{
			HeatingDelta: heatingDelta,
			CoolingDelta: coolingDelta,
		},
		Timing: windows,
	}
}

func absoluteInputs(heatingSetpoint, coolingSetpoint *float64, windows ...config.TimingWindow) config.OffsetInputs {
	return config.OffsetInputs{
		UpgradeName: "test-upgrade",
		Type:        config.OffsetTypeAbsolute,
		Absolute: config.AbsoluteOffset{
			HeatingSetpoint: heatingSetpoint,
			CoolingSetpoint: coolingSetpoint,
		},
		Timing: windows,
	}
}

func allDayWindow(startHour, durationHours int) config.TimingWindow {
	return config.TimingWindow{StartHour: startHour, DurationHours: durationHours, Days: "all"}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestEngine_Apply_NoWindows(t *testing.T) {
	baseline := flatSchedule(48, 68, 76)
	engine := NewEngine(relativeInputs(f(2), f(-3)), time.Monday, logger.NewNoOpLogger())

	out, err := engine.Apply(baseline)

	assert.NoError(t, err)
	assert.Equal(t, baseline, out)
}

func TestEngine_Apply_RelativeMode(t *testing.T) {
	tests := []struct {
		name            string
		inputs          config.OffsetInputs
		expectedHeating []float64
		expectedCooling []float64
	}{
		{
			name:            "heating delta only",
			inputs:          relativeInputs(f(2), nil, allDayWindow(1, 2)),
			expectedHeating: []float64{60, 62, 62, 60},
			expectedCooling: []float64{75, 75, 75, 75},
		},
		{
			name:            "cooling delta only",
			inputs:          relativeInputs(nil, f(4), allDayWindow(1, 2)),
			expectedHeating: []float64{60, 60, 60, 60},
			expectedCooling: []float64{75, 79, 79, 75},
		},
		{
			name:            "both axes, negative heating",
			inputs:          relativeInputs(f(-4), f(4), allDayWindow(0, 4)),
			expectedHeating: []float64{56, 56, 56, 56},
			expectedCooling: []float64{79, 79, 79, 79},
		},
		{
			name:            "no deltas set leaves schedule unchanged",
			inputs:          relativeInputs(nil, nil, allDayWindow(0, 4)),
			expectedHeating: []float64{60, 60, 60, 60},
			expectedCooling: []float64{75, 75, 75, 75},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseline := flatSchedule(4, 60, 75)
			engine := NewEngine(tt.inputs, time.Monday, logger.NewNoOpLogger())

			out, err := engine.Apply(baseline)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedHeating, out.Heating)
			assert.Equal(t, tt.expectedCooling, out.Cooling)
			// Baseline must not be mutated.
			assert.Equal(t, flatSchedule(4, 60, 75), baseline)
		})
	}
}

func TestEngine_Apply_AbsoluteMode(t *testing.T) {
	tests := []struct {
		name            string
		inputs          config.OffsetInputs
		expectedHeating []float64
		expectedCooling []float64
	}{
		{
			name:            "heating target replaces regardless of input value",
			inputs:          absoluteInputs(f(55), nil, allDayWindow(1, 2)),
			expectedHeating: []float64{60, 55, 55, 60},
			expectedCooling: []float64{75, 75, 75, 75},
		},
		{
			name:            "both targets",
			inputs:          absoluteInputs(f(55), f(80), allDayWindow(0, 4)),
			expectedHeating: []float64{55, 55, 55, 55},
			expectedCooling: []float64{80, 80, 80, 80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseline := flatSchedule(4, 60, 75)
			engine := NewEngine(tt.inputs, time.Monday, logger.NewNoOpLogger())

			out, err := engine.Apply(baseline)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedHeating, out.Heating)
			assert.Equal(t, tt.expectedCooling, out.Cooling)
		})
	}
}

func TestEngine_Apply_OverlappingWindows(t *testing.T) {
	// Two windows cover step 2 with different heating deltas; the
	// last-configured window must win, and deltas must not compound.
	first := allDayWindow(1, 2)
	first.Relative = &config.RelativeOffset{HeatingDelta: f(2)}
	second := allDayWindow(2, 2)
	second.Relative = &config.RelativeOffset{HeatingDelta: f(5)}

	baseline := flatSchedule(5, 60, 75)
	engine := NewEngine(relativeInputs(nil, nil, first, second), time.Monday, logger.NewNoOpLogger())

	out, err := engine.Apply(baseline)

	assert.NoError(t, err)
	assert.Equal(t, []float64{60, 62, 65, 65, 60}, out.Heating)
	assert.Equal(t, baseline.Cooling, out.Cooling)
}

func TestEngine_Apply_DayPredicates(t *testing.T) {
	week := 7 * 24
	baseline := flatSchedule(week, 60, 75)

	tests := []struct {
		name         string
		days         string
		startDay     time.Weekday
		activeDays   []int // day index within the schedule week
		inactiveDays []int
	}{
		{
			name:         "weekdays only, week starts Monday",
			days:         "weekdays",
			startDay:     time.Monday,
			activeDays:   []int{0, 1, 2, 3, 4},
			inactiveDays: []int{5, 6},
		},
		{
			name:         "weekends only, week starts Sunday",
			days:         "weekends",
			startDay:     time.Sunday,
			activeDays:   []int{0, 6},
			inactiveDays: []int{1, 2, 3, 4, 5},
		},
		{
			name:         "all days",
			days:         "all",
			startDay:     time.Monday,
			activeDays:   []int{0, 1, 2, 3, 4, 5, 6},
			inactiveDays: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := config.TimingWindow{StartHour: 8, DurationHours: 1, Days: tt.days}
			engine := NewEngine(relativeInputs(f(2), nil, window), tt.startDay, logger.NewNoOpLogger())

			out, err := engine.Apply(baseline)
			require.NoError(t, err)

			for _, day := range tt.activeDays {
				assert.Equal(t, 62.0, out.Heating[day*24+8], "day %d hour 8 should be shifted", day)
			}
			for _, day := range tt.inactiveDays {
				assert.Equal(t, 60.0, out.Heating[day*24+8], "day %d hour 8 should be untouched", day)
			}
		})
	}
}

func TestEngine_Apply_WindowSpansMidnight(t *testing.T) {
	// Window 22:00 for 4 hours: hours 22, 23 of day 0 and 0, 1 of day 1.
	baseline := flatSchedule(48, 60, 75)
	engine := NewEngine(relativeInputs(f(2), nil, allDayWindow(22, 4)), time.Monday, logger.NewNoOpLogger())

	out, err := engine.Apply(baseline)
	require.NoError(t, err)

	shifted := map[int]bool{22: true, 23: true, 24: true, 25: true, 46: true, 47: true, 0: true, 1: true}
	for t0 := 0; t0 < 48; t0++ {
		if shifted[t0] {
			assert.Equal(t, 62.0, out.Heating[t0], "step %d", t0)
		} else {
			assert.Equal(t, 60.0, out.Heating[t0], "step %d", t0)
		}
	}
}

func TestEngine_Apply_MalformedSchedule(t *testing.T) {
	bad := Setpoints{
		Heating: []float64{60, 60, 60},
		Cooling: []float64{75, 75},
	}
	engine := NewEngine(relativeInputs(f(2), nil, allDayWindow(0, 4)), time.Monday, logger.NewNoOpLogger())

	_, err := engine.Apply(bad)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedSchedule))
}

// ==========================
// Unit Tests
// ==========================

func TestSetpoints_Validate(t *testing.T) {
	tests := []struct {
		name     string
		s        Setpoints
		hasError bool
	}{
		{"equal lengths", flatSchedule(4, 60, 75), false},
		{"empty", Setpoints{}, false},
		{"heating longer", Setpoints{Heating: []float64{1, 2}, Cooling: []float64{1}}, true},
		{"cooling longer", Setpoints{Heating: []float64{1}, Cooling: []float64{1, 2}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.hasError {
				assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedSchedule))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStepsModified(t *testing.T) {
	before := flatSchedule(4, 60, 75)
	after := before.Clone()
	after.Heating[1] = 62
	after.Cooling[1] = 78 // same step, still one step
	after.Cooling[3] = 70

	assert.Equal(t, 2, StepsModified(before, after))
	assert.Equal(t, 0, StepsModified(before, before))
}

// ==========================
// End-to-End Scenario
// ==========================

func TestEngine_Apply_ToyScheduleScenario(t *testing.T) {
	baseline := Setpoints{
		Heating: []float64{60, 60, 60, 60},
		Cooling: []float64{75, 75, 75, 75},
	}
	engine := NewEngine(relativeInputs(f(2), nil, allDayWindow(1, 2)), time.Monday, logger.NewTestLogger(t))

	out, err := engine.Apply(baseline)

	require.NoError(t, err)
	assert.Equal(t, []float64{60, 62, 62, 60}, out.Heating)
	assert.Equal(t, []float64{75, 75, 75, 75}, out.Cooling)
	assert.Equal(t, baseline.Steps(), out.Steps())
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkEngine_Apply_FullYear(b *testing.B) {
	baseline := flatSchedule(8760, 68, 76)
	engine := NewEngine(relativeInputs(f(2), f(-2), allDayWindow(16, 4)), time.Monday, logger.NewNoOpLogger())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Apply(baseline)
	}
}
