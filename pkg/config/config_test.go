package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	require.False(t, cfg.Debug)
	require.Equal(t, 100_000, cfg.MaxMotifsPerNode)
	require.Equal(t, 2_000, cfg.NFVSSizeThreshold)
	require.Equal(t, 8_192, cfg.PintGoalSizeLimit)
	require.Equal(t, 100_000, cfg.AttractorCandidatesLimit)
	require.Equal(t, 1_000, cfg.RetainedSetOptimizationThreshold)
	require.Equal(t, 1_000, cfg.MinimumSimulationBudget)
	require.NotNil(t, cfg.Logger)
}

func TestDebugfGatedByDebugFlag(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cfg := Default()
	cfg.Logger = zap.New(core).Sugar()

	cfg.Debugf("expanding node %d", 3)
	require.Equal(t, 0, logs.Len(), "Debugf must be silent when Debug is false")

	cfg.Debug = true
	cfg.Debugf("expanding node %d", 3)
	require.Equal(t, 1, logs.Len())
	require.Contains(t, logs.All()[0].Message, "expanding node 3")
}
