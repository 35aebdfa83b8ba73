package main

import (
	"fmt"

	hadronia "github.com/spinthyia/hadronia_go/pkg"
)

func printConfiguration(config hadronia.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Criteria: %s", config.Criteria), "config")
	logger.Info(fmt.Sprintf("Mode: %v", config.Mode), "config")
	logger.Info(fmt.Sprintf("Acceptance: %s", config.Acceptance), "config")
	logger.Info(fmt.Sprintf("Particle conditions: %d", len(config.Rules.Conditions)), "config")
	logger.Info(fmt.Sprintf("Relationships: %d", len(config.Rules.Relationships)), "config")
	for _, cut := range config.Cuts {
		logger.Info(fmt.Sprintf("Cut: %v", cut), "config")
	}
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Max combinations: %d", config.MaxCombinations), "config")
	logger.Info(fmt.Sprintf("Allow diquark descendants: %t", config.AllowDiquarkDescendants), "config")
	logger.Info(fmt.Sprintf("Recompute diquark: %t", config.RecomputeDiquark), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Parallel: %t", config.Parallel), "config")
	logger.Info(fmt.Sprintf("Metrics address: %s", config.MetricsAddr), "config")
}
