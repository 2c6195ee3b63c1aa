package series

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/record"
)

var (
	ErrTooFewLines      = errors.New("fewer than 2 lines")
	ErrLineOutOfRange   = errors.New("line index out of range")
	ErrWindowOutOfRange = errors.New("window exceeds series length")
	ErrNoBins           = errors.New("no packet bins")
)

// File is a collector log held in memory as lines.
type File struct {
	Path  string
	lines [][]byte
}

// Open reads the log at path. Logs with fewer than two lines are rejected:
// the first export of a run is partial.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	lines := splitLines(data)
	if len(lines) < 2 {
		return nil, fmt.Errorf("%s: %w", path, ErrTooFewLines)
	}

	return &File{Path: path, lines: lines}, nil
}

func (f *File) Len() int {
	return len(f.lines)
}

// Extract decodes zero-based line id and returns the udp_bytes and
// udp_packets bins of its single timestamp and IP.
func (f *File) Extract(id int) (bytesBins, packetBins []uint64, err error) {
	if id < 0 || id >= len(f.lines) {
		return nil, nil, fmt.Errorf("%s: line %d of %d: %w", f.Path, id, len(f.lines), ErrLineOutOfRange)
	}

	_, e, err := record.DecodeFirst(bytes.TrimSpace(f.lines[id]))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: line %d: %w", f.Path, id, err)
	}

	return e.UDPBytes, e.UDPPackets, nil
}

// Stats summarizes the packet bins of one line. Bins may hold values near
// 2^64 after a counter reset, so Sum is unbounded.
type Stats struct {
	Line int
	Bins int
	Sum  *big.Int
	Min  uint64
	Max  uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("%d, %d, %s, %d, %d", s.Line, s.Bins, s.Sum, s.Min, s.Max)
}

// LineStats extracts line id and computes count, sum, min and max of its
// packet bins. An empty series has no min or max and fails.
func (f *File) LineStats(id int) (Stats, error) {
	_, packets, err := f.Extract(id)
	if err != nil {
		return Stats{}, err
	}

	if len(packets) == 0 {
		return Stats{}, fmt.Errorf("%s: line %d: %w", f.Path, id, ErrNoBins)
	}

	sum := new(big.Int)
	lo, hi := packets[0], packets[0]
	for _, p := range packets {
		sum.Add(sum, new(big.Int).SetUint64(p))
		lo = min(lo, p)
		hi = max(hi, p)
	}

	return Stats{
		Line: id,
		Bins: len(packets),
		Sum:  sum,
		Min:  lo,
		Max:  hi,
	}, nil
}

// Window returns size packet bins starting at offset, each scaled to
// million packets per second for a run polled at hz.
func Window(packets []uint64, offset, size, hz int) ([]float64, error) {
	if offset < 0 || size < 0 || offset+size > len(packets) {
		return nil, fmt.Errorf("offset %d size %d of %d bins: %w", offset, size, len(packets), ErrWindowOutOfRange)
	}

	out := make([]float64, size)
	for i, p := range packets[offset : offset+size] {
		out[i] = MillionPPS(p, hz)
	}
	return out, nil
}

// MillionPPS converts a per-bin packet count at hz polls per second to
// millions of packets per second.
func MillionPPS(packets uint64, hz int) float64 {
	return float64(packets) * float64(hz) / 1000000.0
}

func splitLines(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}
	lines := bytes.SplitAfter(data, []byte("\n"))
	if len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}
