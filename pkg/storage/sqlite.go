package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/summary"
)

const schema = `
    CREATE TABLE IF NOT EXISTS udp_totals (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        source TEXT,
        line INTEGER,
        timestamp TEXT,
        ip TEXT,
        address TEXT,
        bins INTEGER,
        udp_bytes INTEGER,
        udp_packets INTEGER
    );
    `

// ErrTooLarge is returned for counters above the signed 64-bit range of a
// SQLite INTEGER.
var ErrTooLarge = errors.New("value exceeds sqlite integer range")

// Store keeps summed log rows in a SQLite database.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Insert writes rows read from source in a single transaction. Nothing is
// written when any row is out of range.
func (s *Store) Insert(source string, rows []summary.Row) error {
	for _, r := range rows {
		if r.UDPBytes > math.MaxInt64 || r.UDPPackets > math.MaxInt64 {
			return fmt.Errorf("line %d ip %s: %w", r.Line, r.IP, ErrTooLarge)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
        INSERT INTO udp_totals (
            source, line, timestamp, ip, address,
            bins, udp_bytes, udp_packets
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			source, r.Line, r.Timestamp, r.IP, r.Address,
			r.Bins, int64(r.UDPBytes), int64(r.UDPPackets),
		)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// TotalsByIP sums udp_bytes per IP for source.
func (s *Store) TotalsByIP(source string) (map[string]uint64, error) {
	rows, err := s.db.Query(`
        SELECT ip, SUM(udp_bytes)
        FROM udp_totals
        WHERE source = ?
        GROUP BY ip
    `, source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]uint64)
	for rows.Next() {
		var ip string
		var total int64
		if err := rows.Scan(&ip, &total); err != nil {
			return nil, err
		}
		out[ip] = uint64(total)
	}

	// SQLite fails the SUM with "integer overflow" rather than wrapping.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to total %s: %w", source, err)
	}
	return out, nil
}
