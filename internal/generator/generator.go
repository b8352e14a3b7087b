// internal/generator/generator.go
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/xeipuuv/gojsonschema"

	"github.com/rajeee/loadflex/internal/common/config"
	apperrors "github.com/rajeee/loadflex/internal/common/errors"
	"github.com/rajeee/loadflex/internal/common/logger"
	"github.com/rajeee/loadflex/internal/schedule"
)

// ScheduleSource produces the baseline setpoint schedules for every building
// described by the document at docPath, in document order.
type ScheduleSource interface {
	Baseline(ctx context.Context, docPath string) ([]schedule.Setpoints, error)
}

// baselineSchema constrains the generator payload before decoding: a list of
// per-building objects carrying number arrays for both axes.
const baselineSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["heating_setpoints", "cooling_setpoints"],
		"properties": {
			"heating_setpoints": {"type": "array", "items": {"type": "number"}},
			"cooling_setpoints": {"type": "array", "items": {"type": "number"}}
		}
	}
}`

// ExecSource runs the external schedule-generation script as a subprocess and
// parses its stdout. The call is synchronous; the run blocks until the
// process exits.
type ExecSource struct {
	cfg    config.GeneratorConfig
	logger logger.Logger
}

func NewExecSource(cfg config.GeneratorConfig, log logger.Logger) *ExecSource {
	return &ExecSource{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"command": cfg.Command}),
	}
}

func (g *ExecSource) Baseline(ctx context.Context, docPath string) ([]schedule.Setpoints, error) {
	args := make([]string, 0, len(g.cfg.Args)+2)
	if g.cfg.Script != "" {
		args = append(args, g.cfg.Script)
	}
	args = append(args, docPath)
	args = append(args, g.cfg.Args...)

	g.logger.Info("running baseline schedule generator", map[string]interface{}{
		"args": args,
	})

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, g.cfg.Command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, apperrors.NewGeneratorFailedError(fmt.Sprintf(
			"%s: %s", err.Error(), stderr.String()))
	}

	return ParseBaseline(stdout.Bytes())
}

// ParseBaseline validates and decodes a generator payload.
func ParseBaseline(data []byte) ([]schedule.Setpoints, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(baselineSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, apperrors.NewGeneratorFailedError(fmt.Sprintf("unparsable payload: %s", err.Error()))
	}
	if !result.Valid() {
		return nil, apperrors.NewGeneratorFailedError(fmt.Sprintf(
			"payload violates baseline schema: %v", result.Errors()))
	}

	var setpoints []schedule.Setpoints
	if err := json.Unmarshal(data, &setpoints); err != nil {
		return nil, apperrors.NewGeneratorFailedError(err.Error())
	}
	return setpoints, nil
}
