package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/netisu/relief/aeno"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

type Health struct {
	Version       string  `json:"version"`
	CPUs          int     `json:"cpus"`
	Workers       int     `json:"workers"`
	MemoryUsedPct float64 `json:"memory_used_percent"`
	CachedAssets  int     `json:"cached_assets"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := Health{
		Version:      aeno.Banner(),
		Workers:      s.config.RenderWorkers,
		CachedAssets: s.cache.Len(),
	}
	if n, err := cpu.Counts(true); err == nil {
		h.CPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		h.MemoryUsedPct = vm.UsedPercent
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h); err != nil {
		log.Printf("Failed to write health: %v", err)
	}
}
