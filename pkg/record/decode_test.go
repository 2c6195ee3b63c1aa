package record

import (
	"testing"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/ipconv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeepsFileOrder(t *testing.T) {
	line := `{"357971": {"2125543809": {"udp_bytes": [1, 2, 3], "udp_packets": [1, 1, 1]}, "16777343": {"udp_bytes": [10], "tcp_bytes": [7], "tcp_packets": [1]}}}`

	records, err := Decode([]byte(line))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "357971", rec.Timestamp)
	require.Len(t, rec.Entries, 2)

	assert.Equal(t, "2125543809", rec.Entries[0].IP)
	assert.Equal(t, []uint64{1, 2, 3}, rec.Entries[0].UDPBytes)
	assert.Equal(t, []uint64{1, 1, 1}, rec.Entries[0].UDPPackets)

	assert.Equal(t, "16777343", rec.Entries[1].IP)
	assert.Equal(t, []uint64{10}, rec.Entries[1].UDPBytes)
	assert.Empty(t, rec.Entries[1].UDPPackets)
	assert.Equal(t, []uint64{7}, rec.Entries[1].TCPBytes)
}

func TestDecodeMissingBytes(t *testing.T) {
	records, err := Decode([]byte(`{"1": {"2": {"udp_packets": [4]}}}`))
	require.NoError(t, err)
	total, err := records[0].Entries[0].UDPByteSum()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total)
}

func TestDecodeErrors(t *testing.T) {
	for _, line := range []string{
		`not json`,
		`[1, 2]`,
		`{"1": [1]}`,
		`{"1": {"2": {"udp_bytes": [1.5]}}}`,
		`{"1": {"2": {"udp_bytes": [-1]}}}`,
		`{"1": {"2": {"udp_bytes": "x"}}}`,
		`{"1": {}} {}`,
		`{"1": {"2": {}}`,
	} {
		_, err := Decode([]byte(line))
		assert.Error(t, err, line)
	}
}

func TestDecodeFirst(t *testing.T) {
	ts, e, err := DecodeFirst([]byte(`{"9": {"5": {"udp_bytes": [1], "udp_packets": [2]}, "6": {}}}`))
	require.NoError(t, err)
	assert.Equal(t, "9", ts)
	assert.Equal(t, "5", e.IP)
	assert.Equal(t, []uint64{2}, e.UDPPackets)

	_, _, err = DecodeFirst([]byte(`{"9": {}}`))
	assert.ErrorIs(t, err, ErrNoEntries)

	_, _, err = DecodeFirst([]byte(`{}`))
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestEntryAddress(t *testing.T) {
	e := Entry{IP: "112277889"}
	assert.Equal(t, ipconv.Format(112277889), e.Address())

	assert.Equal(t, "not-an-ip", Entry{IP: "not-an-ip"}.Address())
}
