// internal/schedule/csv.go
package schedule

import (
	"encoding/csv"
	"os"
	"strconv"

	apperrors "github.com/rajeee/loadflex/internal/common/errors"
)

// csvHeader is the layout consumed by the downstream simulator.
var csvHeader = []string{"heating_setpoint", "cooling_setpoint"}

// WriteCSV serializes a schedule to path, header row plus one data row per
// time step, rows in schedule order.
func WriteCSV(path string, s Setpoints) error {
	if err := s.Validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewScheduleWriteFailedError(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return apperrors.NewScheduleWriteFailedError(path, err)
	}
	for t := 0; t < s.Steps(); t++ {
		row := []string{formatSetpoint(s.Heating[t]), formatSetpoint(s.Cooling[t])}
		if err := w.Write(row); err != nil {
			return apperrors.NewScheduleWriteFailedError(path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return apperrors.NewScheduleWriteFailedError(path, err)
	}

	if err := f.Close(); err != nil {
		return apperrors.NewScheduleWriteFailedError(path, err)
	}
	return nil
}

func formatSetpoint(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
