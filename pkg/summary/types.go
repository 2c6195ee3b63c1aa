package summary

// Row is the sum of one IP entry of one log record.
type Row struct {
	Line       int
	Timestamp  string
	IP         string
	Address    string
	Bins       int
	UDPBytes   uint64
	UDPPackets uint64
}

// IPStats aggregates every record of one IP across a log.
type IPStats struct {
	IP            string
	Address       string
	Records       int
	Bins          int
	UDPBytes      uint64
	UDPPackets    uint64
	PeakPackets   uint64
	PeakMpps      float64
	MeanPackets   float64
	LastTimestamp string
}
