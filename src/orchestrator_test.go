package fpgatest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEmbeddedTest_AllSkeletons(t *testing.T) {
	ctx, _ := testContext(t)

	outcomes, err := RunEmbeddedTest(ctx, OrchestratorOptions{PrintHeaders: true})

	require.NoError(t, err)
	require.Len(t, outcomes, 6)
	for _, o := range outcomes {
		assert.NoError(t, o.Err, "DUT %d (%s)", o.ID, o.Type)
	}
}

func TestRunEmbeddedTest_SelectedSubset(t *testing.T) {
	ctx, _ := testContext(t)

	outcomes, err := RunEmbeddedTest(ctx, OrchestratorOptions{SelectedDUTs: []int{0, 2}})

	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, DUTEcho, outcomes[0].Type)
	assert.Equal(t, DUTRAM, outcomes[1].Type)
	assert.NoError(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)
}

func TestRunEmbeddedTest_ReservedTypeDoesNotAbortRun(t *testing.T) {
	device := NewSimulatedDUT(
		&SimSkeleton{Header: Header{DUTType: DUTEcho, BitwidthInput: 16, BitwidthOutput: 16}},
		&SimSkeleton{Header: Header{DUTType: DUTWindowing, BitwidthInput: 16, BitwidthOutput: 16}},
	)
	session := NewSession(device, SessionOptions{})
	require.NoError(t, session.Open())
	defer session.Close()

	ctx := &ExperimentContext{
		Session: session,
		Config:  ConfigStore{Dir: t.TempDir()},
	}

	outcomes, err := RunEmbeddedTest(ctx, OrchestratorOptions{})

	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.NoError(t, outcomes[0].Err)
	assert.ErrorIs(t, outcomes[1].Err, ErrUnsupportedDUT)
}

func TestRunEmbeddedTest_UnknownIDRejected(t *testing.T) {
	ctx, _ := testContext(t)

	outcomes, err := RunEmbeddedTest(ctx, OrchestratorOptions{SelectedDUTs: []int{42}})

	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.ErrorIs(t, outcomes[0].Err, ErrUnsupportedDUT)
}

func TestRunEmbeddedTest_TransportFailureSurfaces(t *testing.T) {
	device := testDevice()
	session := NewSession(device, SessionOptions{})
	require.NoError(t, session.Open())
	require.NoError(t, device.Close())

	ctx := &ExperimentContext{
		Session: session,
		Config:  ConfigStore{Dir: t.TempDir()},
	}

	_, err := RunEmbeddedTest(ctx, OrchestratorOptions{})

	assert.ErrorIs(t, err, ErrTransport)
}
