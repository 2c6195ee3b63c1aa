package exporter

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/summary"
)

type PrometheusExporter struct {
	registry   *prometheus.Registry
	udpBytes   *prometheus.GaugeVec
	udpPackets *prometheus.GaugeVec
	peakMpps   *prometheus.GaugeVec
	cache      map[string]summary.IPStats
	mu         sync.RWMutex
}

func NewPrometheusExporter() *PrometheusExporter {
	udpBytes := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tclog_udp_bytes_total",
			Help: "UDP bytes logged per IP",
		},
		[]string{"ip"},
	)

	udpPackets := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tclog_udp_packets_total",
			Help: "UDP packets logged per IP",
		},
		[]string{"ip"},
	)

	peakMpps := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tclog_udp_peak_mpps",
			Help: "Peak UDP rate per IP in million packets per second",
		},
		[]string{"ip"},
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(udpBytes)
	registry.MustRegister(udpPackets)
	registry.MustRegister(peakMpps)

	return &PrometheusExporter{
		registry:   registry,
		udpBytes:   udpBytes,
		udpPackets: udpPackets,
		peakMpps:   peakMpps,
		cache:      make(map[string]summary.IPStats),
	}
}

func (p *PrometheusExporter) UpdateStats(stats []summary.IPStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	newCache := make(map[string]summary.IPStats)

	for _, stat := range stats {
		newCache[stat.Address] = stat
		p.udpBytes.WithLabelValues(stat.Address).Set(float64(stat.UDPBytes))
		p.udpPackets.WithLabelValues(stat.Address).Set(float64(stat.UDPPackets))
		p.peakMpps.WithLabelValues(stat.Address).Set(stat.PeakMpps)
	}

	for addr := range p.cache {
		if _, exists := newCache[addr]; !exists {
			p.udpBytes.DeleteLabelValues(addr)
			p.udpPackets.DeleteLabelValues(addr)
			p.peakMpps.DeleteLabelValues(addr)
		}
	}

	p.cache = newCache
}

func (p *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *PrometheusExporter) StartServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Handler())
	return http.ListenAndServe(addr, mux)
}
