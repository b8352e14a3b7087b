// internal/schedule/csv_test.go
package schedule

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajeee/loadflex/internal/common/errors"
)

// ==========================
// Core Functionality Tests
// ==========================

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.csv")
	s := Setpoints{
		Heating: []float64{60, 62.5, 62.5, 60},
		Cooling: []float64{75, 75, 78, 75},
	}

	err := WriteCSV(path, s)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := "heating_setpoint,cooling_setpoint\n" +
		"60,75\n" +
		"62.5,75\n" +
		"62.5,78\n" +
		"60,75\n"
	assert.Equal(t, expected, string(data))
}

func TestWriteCSV_EmptySchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	err := WriteCSV(path, Setpoints{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "heating_setpoint,cooling_setpoint\n", string(data))
}

// ==========================
// Error Handling Tests
// ==========================

func TestWriteCSV_MalformedSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	s := Setpoints{Heating: []float64{60}, Cooling: []float64{75, 75}}

	err := WriteCSV(path, s)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedSchedule))
	assert.NoFileExists(t, path)
}

func TestWriteCSV_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "schedule.csv")

	err := WriteCSV(path, flatSchedule(2, 60, 75))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeScheduleWriteFailed))
}
