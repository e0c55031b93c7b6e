package fpgatest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_CreatesFromDefaults(t *testing.T) {
	store := ConfigStore{Dir: t.TempDir()}

	var settings EchoSettings
	err := store.Load("Config_Echo000", DefaultEchoSettings, &settings)

	require.NoError(t, err)
	assert.Equal(t, DefaultEchoSettings, settings)
	assert.FileExists(t, filepath.Join(store.Dir, "Config_Echo000.yaml"))
}

func TestConfigStore_ReadsEditedFile(t *testing.T) {
	store := ConfigStore{Dir: t.TempDir()}

	require.NoError(t, store.Load("Config_Echo000", DefaultEchoSettings, &EchoSettings{}))

	path := filepath.Join(store.Dir, "Config_Echo000.yaml")
	edited := []byte("sampling_rate: 4000\nfreq_signal: 20\nnum_periods: 5\nbitwidth_data: 8\nsigned_data: true\n")
	require.NoError(t, os.WriteFile(path, edited, 0o644))

	var settings EchoSettings
	require.NoError(t, store.Load("Config_Echo000", DefaultEchoSettings, &settings))

	assert.Equal(t, 4000.0, settings.SamplingRate)
	assert.Equal(t, 8, settings.BitwidthData)
	assert.True(t, settings.SignedData)
}

func TestConfigStore_RejectsDivergedSchema(t *testing.T) {
	store := ConfigStore{Dir: t.TempDir()}

	path := filepath.Join(store.Dir, "Config_Echo000.yaml")
	require.NoError(t, os.MkdirAll(store.Dir, 0o755))
	stale := []byte("sampling_rate: 4000\nsome_old_key: 1\n")
	require.NoError(t, os.WriteFile(path, stale, 0o644))

	err := store.Load("Config_Echo000", DefaultEchoSettings, &EchoSettings{})

	assert.ErrorIs(t, err, ErrConfigSchema)
}
