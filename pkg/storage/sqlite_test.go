package storage

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/summary"
)

func TestInsertAndTotals(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "data", "udp.db"))
	require.NoError(t, err)
	defer s.Close()

	rows := []summary.Row{
		{Line: 1, Timestamp: "100", IP: "1", UDPBytes: 600, UDPPackets: 6, Bins: 3},
		{Line: 2, Timestamp: "101", IP: "1", UDPBytes: 5, UDPPackets: 1, Bins: 1},
		{Line: 2, Timestamp: "101", IP: "2", UDPBytes: 15, UDPPackets: 2, Bins: 2},
	}
	require.NoError(t, s.Insert("run.json", rows))
	require.NoError(t, s.Insert("other.json", rows[:1]))

	totals, err := s.TotalsByIP("run.json")
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"1": 605, "2": 15}, totals)

	totals, err = s.TotalsByIP("missing.json")
	require.NoError(t, err)
	assert.Empty(t, totals)
}

func TestInsertRejectsValuesAboveInt64(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "udp.db"))
	require.NoError(t, err)
	defer s.Close()

	rows := []summary.Row{
		{Line: 1, Timestamp: "100", IP: "1", UDPBytes: 5},
		{Line: 2, Timestamp: "101", IP: "1", UDPBytes: math.MaxInt64 + 1},
	}
	err = s.Insert("run.json", rows)
	assert.ErrorIs(t, err, ErrTooLarge)

	totals, err := s.TotalsByIP("run.json")
	require.NoError(t, err)
	assert.Empty(t, totals)

	require.NoError(t, s.Insert("run.json", []summary.Row{{Line: 1, IP: "1", UDPBytes: math.MaxInt64}}))
	totals, err = s.TotalsByIP("run.json")
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"1": math.MaxInt64}, totals)
}
