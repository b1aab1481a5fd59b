package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"lavish/internal/config"
	"lavish/internal/core"
	"lavish/internal/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("DATA_BACKEND", "file")
	t.Setenv("DATA_DIR", filepath.Join(t.TempDir(), "data"))
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("AMQP_URL", "")
	t.Setenv(config.FileEnv, "")
	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	return cfg
}

func TestOpenLedgerPersistsAcrossOpens(t *testing.T) {
	cfg := fileConfig(t)
	ctx := context.Background()

	l, err := OpenLedger(ctx, cfg, log.Discard())
	require.NoError(t, err)
	assert.Nil(t, l.Publisher)
	_, err = l.Store.Add(ctx, "Salary", 2000, core.Income)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	l, err = OpenLedger(ctx, cfg, log.Discard())
	require.NoError(t, err)
	defer l.Close()
	assert.Equal(t, 1, l.Store.Len())
	assert.Equal(t, time.UTC, l.Store.Location())
}

func TestLoadAndValidateConfigRejectsBadBackend(t *testing.T) {
	t.Setenv("DATA_BACKEND", "redis")
	_, err := LoadAndValidateConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data backend")
}

func TestExportOptions(t *testing.T) {
	cfg := fileConfig(t)
	opts, err := ExportOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, "1/2/2006", opts.DateLayout)
	assert.Equal(t, time.UTC, opts.Location)

	cfg.Timezone = "Nowhere/City"
	_, err = ExportOptions(cfg)
	assert.Error(t, err)
}
