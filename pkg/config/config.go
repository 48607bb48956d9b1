// Package config holds the engine-wide configuration knobs enumerated in
// spec.md §6, with their documented defaults. A Config is a plain,
// immutable-by-convention value; callers that need to override a subset of
// defaults should copy Default() and set individual fields.
package config

import (
	"go.uber.org/zap"
)

// Config collects every tunable described in spec.md §6.
type Config struct {
	// Debug prints progress via Logger when true.
	Debug bool

	// MaxMotifsPerNode is a hard cap on Trap-Solver results per expansion;
	// exceeding it is fatal.
	MaxMotifsPerNode int

	// NFVSSizeThreshold: use an unsigned FVS above this variable count.
	NFVSSizeThreshold int

	// PintGoalSizeLimit caps the literal size of a reachability-oracle goal.
	PintGoalSizeLimit int

	// AttractorCandidatesLimit is a hard cap on candidate enumeration;
	// exceeding it is fatal.
	AttractorCandidatesLimit int

	// RetainedSetOptimizationThreshold triggers dynamic retained-set
	// rebuilding above this candidate count.
	RetainedSetOptimizationThreshold int

	// MinimumSimulationBudget is the per-variable simulation budget used by
	// Attractor-Core's simulation-pruning stage.
	MinimumSimulationBudget int

	// Logger receives debug diagnostics when Debug is true. If nil,
	// Default's no-op logger is used.
	Logger *zap.SugaredLogger
}

// Default returns the engine's documented default configuration.
func Default() Config {
	return Config{
		Debug:                             false,
		MaxMotifsPerNode:                  100_000,
		NFVSSizeThreshold:                 2_000,
		PintGoalSizeLimit:                 8_192,
		AttractorCandidatesLimit:          100_000,
		RetainedSetOptimizationThreshold:  1_000,
		MinimumSimulationBudget:           1_000,
		Logger:                            zap.NewNop().Sugar(),
	}
}

// Debugf prints via c.Logger only when c.Debug is set, matching the
// teacher pack's structured-logging idiom (go.uber.org/zap, as used by
// AKJUS-bsc-erigon throughout the example pack — see DESIGN.md) rather
// than a bare stdlib log.Logger.
func (c Config) Debugf(format string, args ...any) {
	if !c.Debug {
		return
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	logger.Debugf(format, args...)
}
