// internal/pipeline/runner.go
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rajeee/loadflex/internal/common/config"
	apperrors "github.com/rajeee/loadflex/internal/common/errors"
	"github.com/rajeee/loadflex/internal/common/logger"
	"github.com/rajeee/loadflex/internal/common/metrics"
	"github.com/rajeee/loadflex/internal/generator"
	"github.com/rajeee/loadflex/internal/hpxml"
	"github.com/rajeee/loadflex/internal/schedule"
)

// BuildingInfo is run-scoped metadata correlating generated schedules back to
// the buildings in the document.
type BuildingInfo struct {
	RunID        string
	DocumentPath string
	BuildingIDs  []string
}

// Runner sequences one load-flexibility run: baseline fetch, per-building
// offset application, CSV serialization, document merge, single final
// persist. It performs no offset logic itself.
type Runner struct {
	cfg    *config.Config
	source generator.ScheduleSource
	logger logger.Logger
}

func NewRunner(cfg *config.Config, source generator.ScheduleSource, log logger.Logger) *Runner {
	return &Runner{cfg: cfg, source: source, logger: log}
}

// Run processes every building in the document at docPath. Any fatal error
// aborts the run before the document is persisted; CSV side files already
// written for earlier buildings are left in place.
func (r *Runner) Run(ctx context.Context, docPath string) (*BuildingInfo, error) {
	info, err := r.run(ctx, docPath)
	if err != nil {
		metrics.RunsFailed.WithLabelValues(string(apperrors.CodeOf(err))).Inc()
	}
	return info, err
}

func (r *Runner) run(ctx context.Context, docPath string) (*BuildingInfo, error) {
	info := &BuildingInfo{
		RunID:        uuid.NewString(),
		DocumentPath: docPath,
	}
	log := r.logger.WithFields(map[string]interface{}{
		"runId":       info.RunID,
		"upgradeName": r.cfg.Offset.UpgradeName,
	})
	log.Info("starting load flexibility run", map[string]interface{}{
		"document":   docPath,
		"offsetType": string(r.cfg.Offset.Type),
	})

	startDay, err := r.cfg.Schedule.StartDay()
	if err != nil {
		return info, apperrors.NewConfigurationInvalidError(err.Error())
	}

	baselines, err := r.source.Baseline(ctx, docPath)
	if err != nil {
		return info, err
	}

	doc, err := hpxml.Load(docPath)
	if err != nil {
		return info, apperrors.NewDocumentStructureMissingError(err.Error())
	}

	buildings := doc.Buildings()
	if len(buildings) == 0 {
		return info, apperrors.NewDocumentStructureMissingError("document contains no Building elements")
	}
	if len(buildings) != len(baselines) {
		return info, apperrors.NewDocumentStructureMissingError(fmt.Sprintf(
			"document has %d buildings but generator produced %d schedules", len(buildings), len(baselines)))
	}

	engine := schedule.NewEngine(r.cfg.Offset, startDay, log)
	offsetType := string(r.cfg.Offset.Type)

	for i, building := range buildings {
		id, err := doc.BuildingID(building)
		if err != nil {
			return info, err
		}
		info.BuildingIDs = append(info.BuildingIDs, id)

		start := time.Now()
		modified, err := engine.Apply(baselines[i])
		if err != nil {
			return info, err
		}
		metrics.ApplyDuration.Observe(time.Since(start).Seconds())
		metrics.SetpointsShifted.WithLabelValues(offsetType).
			Add(float64(schedule.StepsModified(baselines[i], modified)))

		csvPath := filepath.Join(filepath.Dir(docPath), fmt.Sprintf("hvac_setpoint_schedule_%s.csv", id))
		if err := schedule.WriteCSV(csvPath, modified); err != nil {
			return info, err
		}

		doc.AttachSchedulePath(building, csvPath)
		metrics.BuildingsProcessed.WithLabelValues(offsetType).Inc()

		log.Info("building schedule written", map[string]interface{}{
			"buildingId": id,
			"csv":        csvPath,
			"steps":      modified.Steps(),
		})
	}

	if err := doc.Save(); err != nil {
		return info, err
	}

	log.Info("load flexibility run complete", map[string]interface{}{
		"buildings": len(buildings),
	})
	return info, nil
}
