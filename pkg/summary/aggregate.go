package summary

import (
	"fmt"
	"io"
	"log/slog"
	"math/bits"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/record"
)

type Aggregator struct {
	pollHz     int
	minPackets uint64
}

// NewAggregator returns an Aggregator for logs polled at pollHz. IPs with
// fewer than minPackets UDP packets in total are left out.
func NewAggregator(pollHz int, minPackets uint64) *Aggregator {
	return &Aggregator{
		pollHz:     pollHz,
		minPackets: minPackets,
	}
}

type ipAccum struct {
	stats   IPStats
	packets []float64
}

func (a *Aggregator) Aggregate(r io.Reader) ([]IPStats, error) {
	perIP := make(map[string]*ipAccum)

	var totalRows, badLines int
	skip := func(lineno int, err error) {
		if badLines < 5 {
			slog.Debug("Line skipped", "line", lineno, "error", err)
		}
		badLines++
	}

	err := scanLines(r, func(lineno int, records []record.Record) error {
		rows := lineRows(lineno, records)
		if err := checkTotals(perIP, rows); err != nil {
			skip(lineno, err)
			return nil
		}

		i := 0
		for _, rec := range records {
			for _, e := range rec.Entries {
				row := rows[i]
				i++
				totalRows++

				acc := perIP[e.IP]
				if acc == nil {
					acc = &ipAccum{stats: IPStats{IP: e.IP, Address: row.Address}}
					perIP[e.IP] = acc
				}

				acc.stats.Records++
				acc.stats.Bins += row.Bins
				acc.stats.UDPBytes += row.UDPBytes
				acc.stats.UDPPackets += row.UDPPackets
				acc.stats.LastTimestamp = rec.Timestamp
				for _, p := range e.UDPPackets {
					acc.stats.PeakPackets = max(acc.stats.PeakPackets, p)
					acc.packets = append(acc.packets, float64(p))
				}
			}
		}
		return nil
	}, skip)
	if err != nil {
		return nil, err
	}

	result := make([]IPStats, 0, len(perIP))
	var filtered int

	for _, acc := range perIP {
		if acc.stats.UDPPackets < a.minPackets {
			filtered++
			continue
		}

		if len(acc.packets) > 0 {
			mean, err := stats.Mean(acc.packets)
			if err != nil {
				return nil, fmt.Errorf("failed to compute mean for %s: %w", acc.stats.IP, err)
			}
			acc.stats.PeakMpps = float64(acc.stats.PeakPackets) * float64(a.pollHz) / 1e6
			acc.stats.MeanPackets = mean
		}

		result = append(result, acc.stats)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].IP < result[j].IP
	})

	slog.Debug("Aggregation complete", "entries", totalRows, "badLines", badLines, "ips", len(perIP), "filtered", filtered, "minPackets", a.minPackets)

	return result, nil
}

// checkTotals fails when adding rows would overflow a per-IP total, so a
// line is either applied whole or skipped.
func checkTotals(perIP map[string]*ipAccum, rows []Row) error {
	next := make(map[string][2]uint64)
	for _, row := range rows {
		cur, ok := next[row.IP]
		if !ok {
			if acc := perIP[row.IP]; acc != nil {
				cur = [2]uint64{acc.stats.UDPBytes, acc.stats.UDPPackets}
			}
		}

		var c1, c2 uint64
		cur[0], c1 = bits.Add64(cur[0], row.UDPBytes, 0)
		cur[1], c2 = bits.Add64(cur[1], row.UDPPackets, 0)
		if c1|c2 != 0 {
			return fmt.Errorf("ip %s total: %w", row.IP, record.ErrSumOverflow)
		}
		next[row.IP] = cur
	}
	return nil
}
