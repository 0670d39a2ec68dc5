// Package emulate decides which open pages receive a requested
// emulation, applies it per page with failure isolation, and reports the
// aggregate outcome.
package emulate

import (
	"context"

	"github.com/emutab/emutab/internal/devices"
	"github.com/emutab/emutab/internal/netconds"
)

// NoEmulation is the device name that resets pages to the fixed desktop
// identity and clears session device state.
const NoEmulation = "No emulation"

const aboutBlank = "about:blank"

// Page is one live browser tab, owned by the browser, observed and
// mutated only through these calls. Liveness is advisory: a page may
// close between any two calls, so apply errors are ordinary outcomes.
type Page interface {
	ID() string
	URL(ctx context.Context) (string, error)
	Closed() bool
	EmulateDevice(ctx context.Context, userAgent string, vp devices.Viewport) error
	EmulateNetwork(ctx context.Context, profile *netconds.Profile) error
	ThrottleCPU(ctx context.Context, rate float64) error
}

// PageLister enumerates the currently open pages. Each call is an
// explicit synchronization point with the browser.
type PageLister interface {
	Pages(ctx context.Context) ([]Page, error)
}

// Outcome is the result of one per-page apply attempt.
type Outcome struct {
	PageID string `json:"pageId"`
	URL    string `json:"url,omitempty"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// Result is what every tool invocation returns. OK means the setting
// took effect on at least one page; Report always carries the
// human-readable lines, including on failure.
type Result struct {
	OK        bool      `json:"ok"`
	Report    []string  `json:"report"`
	Device    string    `json:"device,omitempty"`
	Profile   string    `json:"profile,omitempty"`
	CPURate   float64   `json:"cpuRate,omitempty"`
	Succeeded int       `json:"succeeded"`
	Outcomes  []Outcome `json:"outcomes,omitempty"`
}

func failure(lines ...string) Result {
	return Result{Report: lines}
}
