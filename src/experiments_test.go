package fpgatest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) (*ExperimentContext, *SimulatedDUT) {
	t.Helper()
	session, device := openTestSession(t)
	return &ExperimentContext{
		Session: session,
		Config:  ConfigStore{Dir: t.TempDir()},
		RunsDir: t.TempDir(),
	}, device
}

func TestRunEcho_ZeroMAE(t *testing.T) {
	ctx, _ := testContext(t)

	result, err := RunEcho(ctx, 0)

	require.NoError(t, err)
	assert.Zero(t, result.MAE)
	require.Len(t, result.Output, 2000)
	assert.Equal(t, result.Input, result.Output)
}

func TestRunEcho_ArchivesResults(t *testing.T) {
	ctx, _ := testContext(t)

	_, err := RunEcho(ctx, 0)
	require.NoError(t, err)

	runs, err := os.ReadDir(ctx.RunsDir)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.FileExists(t, filepath.Join(ctx.RunsDir, runs[0].Name(), "results_echo.bin"))
}

func TestRunROM_CapturesCyclicSequence(t *testing.T) {
	ctx, _ := testContext(t)

	result, err := RunROM(ctx, 1)

	require.NoError(t, err)
	require.Len(t, result.Output, 10*32)
	for i, v := range result.Output {
		assert.Equal(t, i*3%32, v, "LUT word %d", i)
	}
}

func TestRunRAM_ReadsBackExactly(t *testing.T) {
	ctx, _ := testContext(t)

	result, err := RunRAM(ctx, 2)

	require.NoError(t, err)
	assert.Zero(t, result.Mismatches)
	require.Len(t, result.Output, 31)
	assert.Equal(t, result.Input, result.Output)
}

func TestRunMath_ProductsMatchReference(t *testing.T) {
	ctx, _ := testContext(t)

	result, err := RunMath(ctx, 3)

	require.NoError(t, err)
	assert.Zero(t, result.MAE)
	assert.Len(t, result.Output, 32*32)
	assert.Equal(t, result.Reference, result.Output)
}

func TestRunMath_SlowPipeline(t *testing.T) {
	ctx, _ := testContext(t)

	// Persist a slow-pipeline config before the run picks it up.
	settings := DefaultMathSettings
	settings.InputSize = 2
	settings.BitwidthData = 8
	settings.SlowPipeline = true
	require.NoError(t, ctx.Config.Load("Config_Math003", settings, &MathSettings{}))

	result, err := RunMath(ctx, 3)

	require.NoError(t, err)
	assert.Zero(t, result.MAE)
}

func TestRunBode_IdentityFilterIsFlat(t *testing.T) {
	ctx, _ := testContext(t)

	result, err := RunBode(ctx, 4)

	require.NoError(t, err)
	require.Len(t, result.GainDUT, 11)
	require.Len(t, result.GainRef, 11)
	for i := range result.GainDUT {
		assert.InDelta(t, 0, result.GainDUT[i], 1e-9, "gain at %.1f Hz", result.Frequencies[i])
		assert.InDelta(t, 0, result.PhaseDUT[i], 1e-9, "phase at %.1f Hz", result.Frequencies[i])
	}
	// The reference design rolls off towards the sweep end.
	assert.Less(t, result.GainRef[len(result.GainRef)-1], -20.0)
}

func TestRunDNN_MatchesReferenceModel(t *testing.T) {
	ctx, _ := testContext(t)
	model := NewBasicTestModel(5, 3, FixedPoint{TotalBits: 8, FracBits: 2})

	result, err := RunDNN(ctx, 5, model)

	require.NoError(t, err)
	assert.True(t, result.IDMatched)
	assert.Zero(t, result.NumFalse)
	assert.Equal(t, len(result.Inputs), result.NumTrue)
	assert.Equal(t, result.Expected, result.Outputs)
}

func TestRunDNN_DetectsWrongSkeletonID(t *testing.T) {
	session, _ := openTestSession(t)
	ctx := &ExperimentContext{
		Session: session,
		Config:  ConfigStore{Dir: t.TempDir()},
	}

	settings := DefaultDNNSettings
	settings.SkeletonID = []int{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	require.NoError(t, ctx.Config.Load("Config_Creator005", settings, &DNNSettings{}))

	model := NewBasicTestModel(5, 3, FixedPoint{TotalBits: 8, FracBits: 2})
	result, err := RunDNN(ctx, 5, model)

	require.NoError(t, err)
	assert.False(t, result.IDMatched)
}
