package exporter

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JeffersonLab/dpu-telemetry-eBPF/pkg/summary"
)

type APIServer struct {
	apiKey  string
	cache   map[string]summary.IPStats
	updated time.Time
	mu      sync.RWMutex
}

type ipResponse struct {
	IP            string  `json:"ip"`
	Address       string  `json:"address"`
	Records       int     `json:"records"`
	Bins          int     `json:"bins"`
	UDPBytes      uint64  `json:"udp_bytes"`
	UDPPackets    uint64  `json:"udp_packets"`
	PeakPackets   uint64  `json:"peak_packets"`
	PeakMpps      float64 `json:"peak_mpps"`
	MeanPackets   float64 `json:"mean_packets"`
	LastTimestamp string  `json:"last_timestamp"`
}

func NewAPIServer(apiKey string) *APIServer {
	return &APIServer{
		apiKey: apiKey,
		cache:  make(map[string]summary.IPStats),
	}
}

func (a *APIServer) UpdateStats(stats []summary.IPStats) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cache = make(map[string]summary.IPStats)
	for _, stat := range stats {
		a.cache[stat.IP] = stat
	}
	a.updated = time.Now()
}

func (a *APIServer) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(a.authMiddleware())

	r.GET("/metrics/ips", a.handleGetAllIPs)
	r.GET("/metrics/ips/:ip", a.handleGetIP)

	return r
}

func (a *APIServer) StartServer(addr string) error {
	return a.Router().Run(addr)
}

// authMiddleware requires the bearer API key; an empty key disables auth.
func (a *APIServer) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.apiKey == "" {
			c.Next()
			return
		}
		auth := c.GetHeader("Authorization")
		if auth != "Bearer "+a.apiKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *APIServer) handleGetAllIPs(c *gin.Context) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	response := make([]ipResponse, 0, len(a.cache))
	for _, stat := range a.cache {
		response = append(response, statToResponse(stat))
	}
	sort.Slice(response, func(i, j int) bool {
		return response[i].IP < response[j].IP
	})

	var updated string
	if !a.updated.IsZero() {
		updated = a.updated.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, gin.H{"ips": response, "updated": updated})
}

// handleGetIP accepts either the raw log key or the dotted address.
func (a *APIServer) handleGetIP(c *gin.Context) {
	id := c.Param("ip")

	a.mu.RLock()
	stat, exists := a.cache[id]
	if !exists {
		for _, s := range a.cache {
			if s.Address == id {
				stat, exists = s, true
				break
			}
		}
	}
	a.mu.RUnlock()

	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "ip not found"})
		return
	}

	c.JSON(http.StatusOK, statToResponse(stat))
}

func statToResponse(stat summary.IPStats) ipResponse {
	return ipResponse{
		IP:            stat.IP,
		Address:       stat.Address,
		Records:       stat.Records,
		Bins:          stat.Bins,
		UDPBytes:      stat.UDPBytes,
		UDPPackets:    stat.UDPPackets,
		PeakPackets:   stat.PeakPackets,
		PeakMpps:      stat.PeakMpps,
		MeanPackets:   stat.MeanPackets,
		LastTimestamp: stat.LastTimestamp,
	}
}
