// internal/schedule/offset.go
package schedule

import (
	"time"

	"github.com/rajeee/loadflex/internal/common/config"
	"github.com/rajeee/loadflex/internal/common/logger"
)

const hoursPerDay = 24

// Engine applies a resolved offset configuration to baseline schedules.
type Engine struct {
	inputs   config.OffsetInputs
	startDay time.Weekday
	logger   logger.Logger
}

// NewEngine builds an engine for one run. startDay is the weekday of step 0.
func NewEngine(inputs config.OffsetInputs, startDay time.Weekday, log logger.Logger) *Engine {
	return &Engine{
		inputs:   inputs,
		startDay: startDay,
		logger:   log.WithFields(map[string]interface{}{"offsetType": string(inputs.Type)}),
	}
}

// Apply produces a new schedule with the configured offsets applied. Steps
// outside every timing window are copied unchanged. When several windows cover
// the same step, they are applied in configuration order, so the last window
// wins per axis. Relative deltas are taken from the baseline value, not the
// running value, so overlap never compounds.
func (e *Engine) Apply(s Setpoints) (Setpoints, error) {
	if err := s.Validate(); err != nil {
		return Setpoints{}, err
	}

	out := s.Clone()
	for t := 0; t < s.Steps(); t++ {
		day := time.Weekday((int(e.startDay) + t/hoursPerDay) % 7)
		hour := t % hoursPerDay

		for _, w := range e.inputs.Timing {
			if !w.AppliesTo(day) || !w.Contains(hour) {
				continue
			}
			e.applyWindow(w, s, out, t)
		}
	}

	e.logger.Debug("offset pass complete", map[string]interface{}{
		"steps":         s.Steps(),
		"stepsModified": StepsModified(s, out),
		"windows":       len(e.inputs.Timing),
	})
	return out, nil
}

func (e *Engine) applyWindow(w config.TimingWindow, base, out Setpoints, t int) {
	switch e.inputs.Type {
	case config.OffsetTypeRelative:
		rel := e.inputs.RelativeFor(w)
		if d := rel.HeatingDelta; d != nil {
			out.Heating[t] = base.Heating[t] + *d
		}
		if d := rel.CoolingDelta; d != nil {
			out.Cooling[t] = base.Cooling[t] + *d
		}
	case config.OffsetTypeAbsolute:
		abs := e.inputs.AbsoluteFor(w)
		if v := abs.HeatingSetpoint; v != nil {
			out.Heating[t] = *v
		}
		if v := abs.CoolingSetpoint; v != nil {
			out.Cooling[t] = *v
		}
	}
}
