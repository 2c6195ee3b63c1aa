package summary

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/record"
)

// MaxLineSize bounds a single log line; a 4000 Hz run writes 4000 bins per
// counter per IP.
const MaxLineSize = 64 << 20

// Scan reads a collector log and calls fn for every IP entry of every
// record, in file order. Blank lines are skipped. A line that fails to
// decode, or whose sums overflow a u64, is passed to onErr whole and
// scanning continues; errors from fn or the reader stop the scan.
func Scan(r io.Reader, fn func(Row) error, onErr func(lineno int, err error)) error {
	return scanLines(r, func(lineno int, records []record.Record) error {
		for _, row := range lineRows(lineno, records) {
			if err := fn(row); err != nil {
				return err
			}
		}
		return nil
	}, onErr)
}

// lineRows sums every entry of a decoded line. It must only see lines that
// passed checkSums.
func lineRows(lineno int, records []record.Record) []Row {
	var rows []Row
	for _, rec := range records {
		for _, e := range rec.Entries {
			udpBytes, _ := e.UDPByteSum()
			udpPackets, _ := e.UDPPacketSum()
			rows = append(rows, Row{
				Line:       lineno,
				Timestamp:  rec.Timestamp,
				IP:         e.IP,
				Address:    e.Address(),
				Bins:       len(e.UDPPackets),
				UDPBytes:   udpBytes,
				UDPPackets: udpPackets,
			})
		}
	}
	return rows
}

func checkSums(records []record.Record) error {
	for _, rec := range records {
		for _, e := range rec.Entries {
			if _, err := e.UDPByteSum(); err != nil {
				return fmt.Errorf("timestamp %s: %w", rec.Timestamp, err)
			}
			if _, err := e.UDPPacketSum(); err != nil {
				return fmt.Errorf("timestamp %s: %w", rec.Timestamp, err)
			}
		}
	}
	return nil
}

func scanLines(r io.Reader, fn func(lineno int, records []record.Record) error, onErr func(int, error)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	var lineno int
	for scanner.Scan() {
		lineno++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		records, err := record.Decode(line)
		if err == nil {
			err = checkSums(records)
		}
		if err != nil {
			if onErr != nil {
				onErr(lineno, err)
			}
			continue
		}

		if err := fn(lineno, records); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read line %d: %w", lineno+1, err)
	}
	return nil
}
