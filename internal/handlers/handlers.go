// Package handlers provides HTTP request handlers for the emulation server.
package handlers

import (
	"net/http"

	"github.com/emutab/emutab/internal/bridge"
	"github.com/emutab/emutab/internal/config"
	"github.com/emutab/emutab/internal/emulate"
	"github.com/emutab/emutab/internal/session"
)

type Handlers struct {
	Bridge       bridge.BridgeAPI
	Config       *config.RuntimeConfig
	Orchestrator *emulate.Orchestrator
	Session      *session.State
}

func New(b bridge.BridgeAPI, cfg *config.RuntimeConfig, o *emulate.Orchestrator, s *session.State) *Handlers {
	return &Handlers{
		Bridge:       b,
		Config:       cfg,
		Orchestrator: o,
		Session:      s,
	}
}

// ensureChrome ensures Chrome is initialized before handling requests that need it
func (h *Handlers) ensureChrome() error {
	return h.Bridge.EnsureChrome(h.Config)
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux, doShutdown func()) {
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("POST /ensure-chrome", h.HandleEnsureChrome)
	mux.HandleFunc("GET /tabs", h.HandleTabs)
	mux.HandleFunc("GET /metrics", h.HandleMetrics)
	mux.HandleFunc("POST /navigate", h.HandleNavigate)
	mux.HandleFunc("GET /navigate", h.HandleNavigate)
	mux.HandleFunc("POST /tab", h.HandleTab)
	mux.HandleFunc("POST /emulate/network", h.HandleEmulateNetwork)
	mux.HandleFunc("POST /emulate/cpu", h.HandleEmulateCPU)
	mux.HandleFunc("POST /emulate/device", h.HandleEmulateDevice)
	mux.HandleFunc("GET /emulate/state", h.HandleEmulationState)
	mux.HandleFunc("GET /emulate/devices", h.HandleDevices)

	if doShutdown != nil {
		mux.HandleFunc("POST /shutdown", h.HandleShutdown(doShutdown))
	}
}
