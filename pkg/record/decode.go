package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrNoEntries = errors.New("record has no entries")

type bins struct {
	UDPBytes   []uint64 `json:"udp_bytes"`
	UDPPackets []uint64 `json:"udp_packets"`
	TCPBytes   []uint64 `json:"tcp_bytes"`
	TCPPackets []uint64 `json:"tcp_packets"`
}

// Decode parses one log line. The collector writes a single timestamp per
// line, but every timestamp and IP found is returned in file order.
func Decode(line []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))

	var records []Record
	err := walkObject(dec, func(ts string) error {
		rec := Record{Timestamp: ts}
		err := walkObject(dec, func(ip string) error {
			var b bins
			if err := dec.Decode(&b); err != nil {
				return fmt.Errorf("ip %s: %w", ip, err)
			}
			rec.Entries = append(rec.Entries, Entry{
				IP:         ip,
				UDPBytes:   b.UDPBytes,
				UDPPackets: b.UDPPackets,
				TCPBytes:   b.TCPBytes,
				TCPPackets: b.TCPPackets,
			})
			return nil
		})
		if err != nil {
			return fmt.Errorf("timestamp %s: %w", ts, err)
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after record")
	}

	return records, nil
}

// DecodeFirst returns the first IP entry of the first timestamp in line.
func DecodeFirst(line []byte) (string, Entry, error) {
	records, err := Decode(line)
	if err != nil {
		return "", Entry{}, err
	}
	if len(records) == 0 || len(records[0].Entries) == 0 {
		return "", Entry{}, ErrNoEntries
	}
	return records[0].Timestamp, records[0].Entries[0], nil
}

// walkObject reads a JSON object from dec and calls fn for every key with
// the decoder positioned at the key's value.
func walkObject(dec *json.Decoder, fn func(key string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := fn(key); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}
