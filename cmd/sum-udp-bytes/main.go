package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/big"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/internal/logging"
	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/storage"
	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/summary"
)

var (
	showIP   = flag.Bool("show-ip", false, "Prefix each sum with the timestamp and dotted IP")
	total    = flag.Bool("total", false, "Print the total of all sums after the last record")
	dbPath   = flag.String("db", "", "Also store the sums in this SQLite database")
	logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
)

type options struct {
	showIP bool
	total  bool
}

// sumFile prints the udp_bytes sum of every IP entry in in. Lines that fail
// to parse are reported on out and skipped.
func sumFile(in io.Reader, out io.Writer, opts options) ([]summary.Row, error) {
	var rows []summary.Row
	// Sums of separate lines can add past a u64.
	grand := new(big.Int)

	err := summary.Scan(in, func(r summary.Row) error {
		rows = append(rows, r)
		grand.Add(grand, new(big.Int).SetUint64(r.UDPBytes))

		if opts.showIP {
			_, err := fmt.Fprintf(out, "%s %s %d\n", r.Timestamp, r.Address, r.UDPBytes)
			return err
		}
		_, err := fmt.Fprintln(out, r.UDPBytes)
		return err
	}, func(lineno int, err error) {
		slog.Debug("Line skipped", "line", lineno)
		fmt.Fprintf(out, "Failed to parse line: %v\n", err)
	})
	if err != nil {
		return nil, err
	}

	if opts.total {
		if _, err := fmt.Fprintf(out, "total %s\n", grand); err != nil {
			return nil, err
		}
	}

	return rows, nil
}

func main() {
	flag.Parse()
	logging.Setup(os.Stderr, *logLevel)

	if flag.NArg() < 1 {
		fmt.Println("Usage: sum-udp-bytes <input_file>")
		os.Exit(1)
	}
	inputFile := flag.Arg(0)

	f, err := os.Open(inputFile)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	defer f.Close()

	rows, err := sumFile(f, os.Stdout, options{showIP: *showIP, total: *total})
	if err != nil {
		log.Fatalf("Failed to read %s: %v", inputFile, err)
	}

	if *dbPath != "" {
		store, err := storage.Open(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer store.Close()

		if err := store.Insert(inputFile, rows); err != nil {
			log.Fatalf("Failed to store sums: %v", err)
		}
		slog.Info("Stored sums", "rows", len(rows), "db", *dbPath)
	}
}
