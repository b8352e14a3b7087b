// cmd/loadflex/main.go
package main

import (
	"context"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/rajeee/loadflex/internal/common/config"
	"github.com/rajeee/loadflex/internal/common/logger"
	"github.com/rajeee/loadflex/internal/generator"
	"github.com/rajeee/loadflex/internal/pipeline"
)

func main() {
	var (
		hpxmlPath  = pflag.String("hpxml", "", "path to the HPXML building description document")
		configPath = pflag.String("config", "", "path to the run configuration file (default: search paths)")
	)
	pflag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if *hpxmlPath == "" {
		zapLog.Error("--hpxml is required")
		pflag.Usage()
		os.Exit(1)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath, log)
	} else {
		cfg, err = config.Load(log)
	}
	if err != nil {
		zapLog.Error("config load failed", zap.Error(err))
		os.Exit(1)
	}

	// Rebuild the logger with the configured level/format.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log = logger.NewZapAdapter(zapLog)

	source := generator.NewExecSource(cfg.Generator, log)
	runner := pipeline.NewRunner(cfg, source, log)

	if _, err := runner.Run(context.Background(), *hpxmlPath); err != nil {
		zapLog.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}
