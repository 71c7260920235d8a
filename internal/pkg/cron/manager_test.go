package cron

import (
	"Inkwell/internal/api/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCronManager_DefaultSpec(t *testing.T) {
	mgr := NewCronManager(config.CronConfig{}, nil, nil)
	assert.Equal(t, defaultReconcileSpec, mgr.reconcileSpec)
	assert.Equal(t, defaultMediaCleanupSpec, mgr.mediaCleanupSpec)
}

func TestRegisterJobs(t *testing.T) {
	mgr := NewCronManager(config.CronConfig{CounterReconcile: "*/30 * * * * *"}, nil, nil)
	require.NoError(t, mgr.RegisterJobs())
	assert.Len(t, mgr.engine.Entries(), 2)

	bad := NewCronManager(config.CronConfig{CounterReconcile: "every minute"}, nil, nil)
	assert.Error(t, bad.RegisterJobs())

	bad = NewCronManager(config.CronConfig{MediaCleanup: "hourly-ish"}, nil, nil)
	assert.Error(t, bad.RegisterJobs())
}
