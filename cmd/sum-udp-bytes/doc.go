// Sum-udp-bytes prints the sum of the udp_bytes bins of every IP entry in a
// collector JSON-lines log, one sum per line in file order. Lines that fail
// to parse are reported as "Failed to parse line: ..." and skipped.
//
// Usage:
//
//	sum-udp-bytes [--show-ip] [--total] [--db file] <input_file>
package main
