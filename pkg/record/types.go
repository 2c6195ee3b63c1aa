package record

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/ipconv"
)

// ErrSumOverflow is returned when the bins of a counter add up to more than
// a u64 holds. The collector diffs counters with unsigned subtraction, so a
// counter reset shows up as a bin near 2^64.
var ErrSumOverflow = errors.New("sum overflows u64")

// Record is one line of a collector log: a single export second and the
// per-IP bins polled during it.
type Record struct {
	Timestamp string
	Entries   []Entry
}

// Entry holds the per-poll bins of one IP. IP is the raw map key, a u32 in
// network byte order written in decimal.
type Entry struct {
	IP         string
	UDPBytes   []uint64
	UDPPackets []uint64
	TCPBytes   []uint64
	TCPPackets []uint64
}

func (e Entry) UDPByteSum() (uint64, error) {
	total, err := Sum(e.UDPBytes)
	if err != nil {
		return 0, fmt.Errorf("ip %s udp_bytes: %w", e.IP, err)
	}
	return total, nil
}

func (e Entry) UDPPacketSum() (uint64, error) {
	total, err := Sum(e.UDPPackets)
	if err != nil {
		return 0, fmt.Errorf("ip %s udp_packets: %w", e.IP, err)
	}
	return total, nil
}

// Address returns the dotted form of the IP key, or the key itself when it
// is not a u32.
func (e Entry) Address() string {
	v, err := ipconv.ParseU32(e.IP)
	if err != nil {
		return e.IP
	}
	return ipconv.Format(v)
}

// Sum adds values, failing with ErrSumOverflow instead of wrapping.
func Sum(values []uint64) (uint64, error) {
	var total, carry uint64
	for _, v := range values {
		total, carry = bits.Add64(total, v, 0)
		if carry != 0 {
			return 0, ErrSumOverflow
		}
	}
	return total, nil
}
