// Package ipconv converts the u32 IPv4 keys written by the collector, which
// hold the address in network byte order, to dotted-decimal strings.
package ipconv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

var ErrOutOfRange = errors.New("value out of u32 range")

// ParseU32 parses a decimal or prefixed (0x, 0o, 0b) integer literal with
// optional surrounding space and leading '+'. Leading zeros are only allowed
// in zero itself ("00", "0_0"); legacy octal such as "010" is rejected.
func ParseU32(s string) (uint32, error) {
	lit := strings.TrimPrefix(strings.TrimSpace(s), "+")
	if len(lit) > 1 && lit[0] == '0' && lit[1] >= '0' && lit[1] <= '9' &&
		strings.Trim(lit, "0_") != "" {
		return 0, fmt.Errorf("invalid integer literal %q: leading zeros", s)
	}

	v, err := strconv.ParseUint(lit, 0, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%q: %w", s, ErrOutOfRange)
		}
		return 0, fmt.Errorf("invalid integer literal %q: %w", s, err)
	}
	return uint32(v), nil
}

// NetworkToHost is ntohl: v holds bytes in network order as laid out in
// host memory.
func NetworkToHost(v uint32) uint32 {
	var b [4]byte
	binary.NativeEndian.PutUint32(b[:], v)
	return binary.BigEndian.Uint32(b[:])
}

// HostToNetwork is htonl.
func HostToNetwork(v uint32) uint32 {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return binary.NativeEndian.Uint32(b[:])
}

// Format returns the dotted-decimal address of a network order value.
func Format(v uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], NetworkToHost(v))
	return netip.AddrFrom4(b).String()
}
