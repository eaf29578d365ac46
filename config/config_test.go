package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := New()
	assert.Equal(t, uint64(4096), cfg.Confirmation.BatchWriteSize)
	assert.Equal(t, uint64(14000), cfg.Confirmation.BatchReadSize)
	assert.Equal(t, uint64(20000), cfg.Confirmation.LargeChainThreshold)

	epochLink, err := cfg.EpochLinkHash()
	assert.NoError(t, err)
	assert.False(t, epochLink.IsZero())
}

func TestMergeConfirmationConfig(t *testing.T) {
	cfg := MergeConfirmationConfig(&Confirmation{BatchWriteSize: 16})
	assert.Equal(t, uint64(16), cfg.BatchWriteSize)
	assert.Equal(t, uint64(14000), cfg.BatchReadSize)
}

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "lattice-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "lattice.config.json")
	text := `{"DataDir": "/tmp/lattice", "Confirmation": {"BatchWriteSize": 128}}`
	require.NoError(t, ioutil.WriteFile(path, []byte(text), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lattice", cfg.DataDir)
	assert.Equal(t, filepath.Join("/tmp/lattice", "ledger"), cfg.LedgerDir())
	assert.Equal(t, uint64(128), cfg.Confirmation.BatchWriteSize)
	assert.Equal(t, uint64(14000), cfg.Confirmation.BatchReadSize)
	assert.Equal(t, DefaultEpochLink, cfg.EpochLink)

	_, err = Load(filepath.Join(dir, "does-not-exist.json"))
	assert.Error(t, err)
}
