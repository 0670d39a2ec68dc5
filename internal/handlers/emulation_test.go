package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/emutab/emutab/internal/netconds"
	"github.com/emutab/emutab/internal/session"
)

func TestHandleEmulateNetwork_UnknownProfile(t *testing.T) {
	h, _ := newEmuHandlers(&stubPage{id: "t1", url: "https://example.com"})

	req := httptest.NewRequest("POST", "/emulate/network", strings.NewReader(`{"profile":"Warp speed"}`))
	w := httptest.NewRecorder()
	h.HandleEmulateNetwork(w, req)

	if w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["code"] != "unknown_profile" {
		t.Errorf("expected code unknown_profile, got %v", resp["code"])
	}
	details, _ := resp["details"].(map[string]any)
	known, _ := details["known"].([]any)
	if len(known) != len(netconds.Names()) {
		t.Errorf("expected %d known profiles in details, got %v", len(netconds.Names()), known)
	}
}

func TestHandleEmulateNetwork_MissingProfile(t *testing.T) {
	h, _ := newEmuHandlers(&stubPage{id: "t1"})

	req := httptest.NewRequest("POST", "/emulate/network", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.HandleEmulateNetwork(w, req)

	if w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleEmulateNetwork_AppliesPreset(t *testing.T) {
	page := &stubPage{id: "t1", url: "https://example.com"}
	h, state := newEmuHandlers(page)

	req := httptest.NewRequest("POST", "/emulate/network", strings.NewReader(`{"profile":"Slow 3G"}`))
	w := httptest.NewRecorder()
	h.HandleEmulateNetwork(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !page.netSet || page.gotNet == nil || page.gotNet.Name != "Slow 3G" {
		t.Errorf("preset not applied to page: %+v", page.gotNet)
	}
	if state.Snapshot().NetworkProfile != "Slow 3G" {
		t.Errorf("session not updated: %+v", state.Snapshot())
	}
	var res map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res["ok"] != true {
		t.Errorf("expected ok result, got %v", res)
	}
}

func TestHandleEmulateNetwork_ChromeInitFailure(t *testing.T) {
	h, _ := newEmuHandlers(&stubPage{id: "t1"})
	h.Bridge = &MockBridge{ensureChromeErr: "spawn failed"}

	req := httptest.NewRequest("POST", "/emulate/network", strings.NewReader(`{"profile":"Offline"}`))
	w := httptest.NewRecorder()
	h.HandleEmulateNetwork(w, req)

	if w.Code != 503 {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestHandleEmulateCPU_RateBounds(t *testing.T) {
	for _, rate := range []string{"0", "0.5", "21", "-3"} {
		h, _ := newEmuHandlers(&stubPage{id: "t1"})
		req := httptest.NewRequest("POST", "/emulate/cpu", strings.NewReader(`{"rate":`+rate+`}`))
		w := httptest.NewRecorder()
		h.HandleEmulateCPU(w, req)

		if w.Code != 400 {
			t.Errorf("rate %s: expected 400, got %d", rate, w.Code)
		}
	}
}

func TestHandleEmulateCPU_Applies(t *testing.T) {
	page := &stubPage{id: "t1", url: "https://example.com"}
	h, state := newEmuHandlers(page)

	req := httptest.NewRequest("POST", "/emulate/cpu", strings.NewReader(`{"rate":4}`))
	w := httptest.NewRecorder()
	h.HandleEmulateCPU(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !page.cpuSet || page.gotCPU != 4 {
		t.Errorf("rate not applied: %v", page.gotCPU)
	}
	if state.Snapshot().CPURate != 4 {
		t.Errorf("session rate = %v, want 4", state.Snapshot().CPURate)
	}
}

func TestHandleEmulateDevice_Default(t *testing.T) {
	page := &stubPage{id: "t1", url: "https://example.com"}
	h, state := newEmuHandlers(page)

	req := httptest.NewRequest("POST", "/emulate/device", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.HandleEmulateDevice(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if page.gotVP.Width != 375 || page.gotVP.Height != 667 {
		t.Errorf("default device viewport not applied: %+v", page.gotVP)
	}
	if state.Snapshot().Device != "iPhone 8" {
		t.Errorf("session device = %q, want iPhone 8", state.Snapshot().Device)
	}
}

func TestHandleEmulateDevice_NoPages(t *testing.T) {
	h, _ := newEmuHandlers()

	req := httptest.NewRequest("POST", "/emulate/device", strings.NewReader(`{"device":"Pixel 7"}`))
	w := httptest.NewRecorder()
	h.HandleEmulateDevice(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200 with in-band failure, got %d", w.Code)
	}
	var res map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res["ok"] != false {
		t.Errorf("expected ok=false, got %v", res["ok"])
	}
	report, _ := res["report"].([]any)
	if len(report) == 0 || !contains(report[0].(string), "No active pages") {
		t.Errorf("expected no-active-pages report, got %v", report)
	}
}

func TestHandleEmulationState(t *testing.T) {
	h, state := newEmuHandlers()
	state.SetNetwork("Offline")
	state.SetCPURate(2)
	state.SetDevice("Pixel 7")

	req := httptest.NewRequest("GET", "/emulate/state", nil)
	w := httptest.NewRecorder()
	h.HandleEmulationState(w, req)

	var info session.Info
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info.NetworkProfile != "Offline" || info.CPURate != 2 || info.Device != "Pixel 7" {
		t.Errorf("unexpected state: %+v", info)
	}
}

func TestHandleDevices(t *testing.T) {
	h, _ := newEmuHandlers()

	req := httptest.NewRequest("GET", "/emulate/devices", nil)
	w := httptest.NewRecorder()
	h.HandleDevices(w, req)

	var resp struct {
		Devices []string `json:"devices"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	for _, name := range resp.Devices {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "landscape") || strings.Contains(lower, "blackberry") {
			t.Errorf("curated list leaked %q", name)
		}
	}

	req = httptest.NewRequest("GET", "/emulate/devices?all=true", nil)
	w = httptest.NewRecorder()
	h.HandleDevices(w, req)

	var full struct {
		Devices []string `json:"devices"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &full); err != nil {
		t.Fatal(err)
	}
	if len(full.Devices) <= len(resp.Devices) {
		t.Errorf("full catalog (%d) should exceed curated subset (%d)", len(full.Devices), len(resp.Devices))
	}
}
