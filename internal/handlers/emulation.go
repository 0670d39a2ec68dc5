package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/emutab/emutab/internal/devices"
	"github.com/emutab/emutab/internal/emulate"
	"github.com/emutab/emutab/internal/netconds"
	"github.com/emutab/emutab/internal/web"
)

const (
	minCPURate = 1
	maxCPURate = 20
)

func (h *Handlers) HandleEmulateNetwork(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Profile string `json:"profile"`
		TabID   string `json:"tabId"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		web.Error(w, 400, fmt.Errorf("decode: %w", err))
		return
	}
	if req.Profile == "" {
		web.Error(w, 400, fmt.Errorf("profile required"))
		return
	}

	profile, ok := netconds.Resolve(req.Profile)
	if !ok {
		web.ErrorCode(w, 400, "unknown_profile",
			fmt.Sprintf("unknown network profile %q", req.Profile),
			map[string]any{"known": netconds.Names()})
		return
	}

	if err := h.ensureChrome(); err != nil {
		web.Error(w, 503, fmt.Errorf("chrome initialization failed: %w", err))
		return
	}

	res := h.Orchestrator.EmulateNetwork(r.Context(), req.Profile, profile, req.TabID)
	web.JSON(w, 200, res)
}

func (h *Handlers) HandleEmulateCPU(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rate  float64 `json:"rate"`
		TabID string  `json:"tabId"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		web.Error(w, 400, fmt.Errorf("decode: %w", err))
		return
	}
	if req.Rate < minCPURate || req.Rate > maxCPURate {
		web.ErrorCode(w, 400, "invalid_rate",
			fmt.Sprintf("rate must be between %d and %d, got %g", minCPURate, maxCPURate, req.Rate),
			nil)
		return
	}

	if err := h.ensureChrome(); err != nil {
		web.Error(w, 503, fmt.Errorf("chrome initialization failed: %w", err))
		return
	}

	res := h.Orchestrator.EmulateCPU(r.Context(), req.Rate, req.TabID)
	web.JSON(w, 200, res)
}

func (h *Handlers) HandleEmulateDevice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Device    string `json:"device"`
		UserAgent string `json:"userAgent"`
		TabID     string `json:"tabId"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		web.Error(w, 400, fmt.Errorf("decode: %w", err))
		return
	}

	if err := h.ensureChrome(); err != nil {
		web.Error(w, 503, fmt.Errorf("chrome initialization failed: %w", err))
		return
	}

	res := h.Orchestrator.EmulateDevice(r.Context(), emulate.DeviceRequest{
		Device:    req.Device,
		UserAgent: req.UserAgent,
		TabID:     req.TabID,
	})
	web.JSON(w, 200, res)
}

func (h *Handlers) HandleEmulationState(w http.ResponseWriter, r *http.Request) {
	web.JSON(w, 200, h.Session.Snapshot())
}

func (h *Handlers) HandleDevices(w http.ResponseWriter, r *http.Request) {
	if strings.EqualFold(r.URL.Query().Get("all"), "true") {
		web.JSON(w, 200, map[string]any{"devices": devices.AllNames()})
		return
	}
	web.JSON(w, 200, map[string]any{"devices": devices.CommonMobileNames()})
}
