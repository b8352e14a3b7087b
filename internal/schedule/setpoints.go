// internal/schedule/setpoints.go
package schedule

import (
	apperrors "github.com/rajeee/loadflex/internal/common/errors"
)

// Setpoints is one building's time-indexed heating/cooling setpoint schedule,
// one entry per hourly step of the simulation year.
type Setpoints struct {
	Heating []float64 `json:"heating_setpoints"`
	Cooling []float64 `json:"cooling_setpoints"`
}

// Steps returns the number of time steps in the schedule.
func (s Setpoints) Steps() int {
	return len(s.Heating)
}

// Validate checks the heating/cooling length invariant.
func (s Setpoints) Validate() error {
	if len(s.Heating) != len(s.Cooling) {
		return apperrors.NewMalformedScheduleError(len(s.Heating), len(s.Cooling))
	}
	return nil
}

// Clone returns a deep copy of the schedule.
func (s Setpoints) Clone() Setpoints {
	out := Setpoints{
		Heating: make([]float64, len(s.Heating)),
		Cooling: make([]float64, len(s.Cooling)),
	}
	copy(out.Heating, s.Heating)
	copy(out.Cooling, s.Cooling)
	return out
}

// StepsModified counts the steps at which two schedules of equal length differ
// on either axis.
func StepsModified(before, after Setpoints) int {
	n := 0
	for t := range before.Heating {
		if before.Heating[t] != after.Heating[t] || before.Cooling[t] != after.Cooling[t] {
			n++
		}
	}
	return n
}
