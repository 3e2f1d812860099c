package probes

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemProcessListerSnapshot(t *testing.T) {
	lister := NewSystemProcessLister()

	snapshots, err := lister.Snapshot()
	require.NoError(t, err)
	require.NotEmpty(t, snapshots, "at least the test process should be listed")

	ownPID := int32(os.Getpid())
	found := false
	for _, s := range snapshots {
		assert.Positive(t, s.PID)
		assert.NotEmpty(t, s.Name)
		if s.PID == ownPID {
			found = true
		}
	}
	assert.True(t, found, "expected to find our own process in the snapshot")
}

func TestSystemConnectionListerSnapshot(t *testing.T) {
	lister := NewSystemConnectionLister()

	snapshots, err := lister.Snapshot()
	require.NoError(t, err)

	// Whatever is established right now must carry a remote endpoint.
	for _, c := range snapshots {
		assert.Equal(t, "ESTABLISHED", c.Status)
		assert.NotEmpty(t, c.RemoteAddr)
	}
}

func TestSystemResourceGaugeRead(t *testing.T) {
	gauge := NewSystemResourceGauge()
	gauge.SampleDelay = 100 * time.Millisecond

	reading, err := gauge.Read()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, reading.CPUPercent, 0.0)
	assert.LessOrEqual(t, reading.CPUPercent, 100.0)
	assert.Greater(t, reading.MemoryPercent, 0.0)
	assert.Greater(t, reading.DiskPercent, 0.0)
	assert.WithinDuration(t, time.Now(), reading.SampledAt, 5*time.Second)
}
