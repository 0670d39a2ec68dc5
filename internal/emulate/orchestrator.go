package emulate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/emutab/emutab/internal/devices"
	"github.com/emutab/emutab/internal/netconds"
	"github.com/emutab/emutab/internal/session"
)

// Orchestrator drives emulation requests against the page collaborator
// and keeps the session state consistent with what actually applied.
type Orchestrator struct {
	Pages   PageLister
	Session *session.State
}

func New(pages PageLister, state *session.State) *Orchestrator {
	return &Orchestrator{Pages: pages, Session: state}
}

// DeviceRequest is one invocation of the device emulation tool.
type DeviceRequest struct {
	Device    string
	UserAgent string
	TabID     string
}

// EmulateDevice applies a device identity to the selected page and to
// every other page that already shows navigated content. It never
// returns an error; all failure paths end in the report.
func (o *Orchestrator) EmulateDevice(ctx context.Context, req DeviceRequest) Result {
	clearing := req.Device == NoEmulation

	var resolved string
	var desc devices.Descriptor
	var notes []string

	if clearing {
		resolved, desc = devices.Desktop.Name, devices.Desktop
	} else {
		resolved, desc = devices.Resolve(req.Device)
		if req.Device != "" && !devices.Known(req.Device) {
			notes = append(notes, fmt.Sprintf(
				"Unknown device %q; falling back to %q. Known devices: %s.",
				req.Device, resolved, joinURLs(devices.CommonMobileNames())))
		}
	}

	snapshot, selected, res := o.snapshot(ctx, req.TabID)
	if res != nil {
		return *res
	}

	selectedURL, navigated := selectedNavigation(ctx, selected)
	if navigated {
		notes = append(notes, fmt.Sprintf(
			"Note: the selected page has already navigated (%s). The new identity applies to future loads; resources fetched earlier saw the previous one.",
			selectedURL))
	}

	targets := classify(ctx, snapshot, selected, selectedURL)
	if len(targets) > 1 {
		notes = append(notes, multiPageNote(ctx, targets[1:]))
	}

	targets = filterLive(targets)
	if len(targets) == 0 {
		return failure(append(notes, "All target pages closed before emulation could be applied.")...)
	}

	outcomes := o.applyDevice(ctx, targets, desc, req.UserAgent)
	summary := summarizeDevice(outcomes, resolved, desc, req.UserAgent != "", notes)

	if summary.Succeeded > 0 {
		if clearing {
			o.Session.ClearDevice()
		} else {
			o.Session.SetDevice(resolved)
		}
	}
	return summary
}

// EmulateNetwork applies a named network preset to the selected page
// only. A nil profile (the "No emulation" preset) clears throttling.
func (o *Orchestrator) EmulateNetwork(ctx context.Context, name string, profile *netconds.Profile, tabID string) Result {
	_, selected, res := o.snapshot(ctx, tabID)
	if res != nil {
		return *res
	}

	if err := selected.EmulateNetwork(ctx, profile); err != nil {
		url := lastKnownURL(ctx, selected)
		return failure(fmt.Sprintf("Network emulation failed on %s: %v", pageLabel(selected.ID(), url), err))
	}

	if profile == nil {
		o.Session.ClearNetwork()
		return Result{
			OK:     true,
			Report: []string{"Network emulation disabled."},
		}
	}
	o.Session.SetNetwork(name)
	line := fmt.Sprintf("Network conditions set to %s (down %.0f B/s, up %.0f B/s, latency %.0f ms).",
		name, profile.Download, profile.Upload, profile.Latency)
	if profile.Offline {
		line = "Network set to offline."
	}
	return Result{OK: true, Profile: name, Succeeded: 1, Report: []string{line}}
}

// EmulateCPU applies a CPU slowdown factor to the selected page only.
// Rate 1 disables throttling.
func (o *Orchestrator) EmulateCPU(ctx context.Context, rate float64, tabID string) Result {
	_, selected, res := o.snapshot(ctx, tabID)
	if res != nil {
		return *res
	}

	if err := selected.ThrottleCPU(ctx, rate); err != nil {
		url := lastKnownURL(ctx, selected)
		return failure(fmt.Sprintf("CPU throttling failed on %s: %v", pageLabel(selected.ID(), url), err))
	}

	o.Session.SetCPURate(rate)
	if rate == session.DefaultCPURate {
		return Result{OK: true, CPURate: rate, Report: []string{"CPU throttling disabled."}}
	}
	return Result{
		OK:      true,
		CPURate: rate,
		Report:  []string{fmt.Sprintf("CPU throttling set to %gx slowdown.", rate)},
	}
}

// snapshot captures the live page set and picks the selected page. A
// non-nil Result is a terminal "no active pages" condition.
func (o *Orchestrator) snapshot(ctx context.Context, tabID string) ([]Page, Page, *Result) {
	pages, err := o.Pages.Pages(ctx)
	if err != nil {
		r := failure(fmt.Sprintf("Cannot enumerate pages: %v", err))
		return nil, nil, &r
	}

	live := filterLive(pages)
	if len(live) == 0 {
		r := failure("No active pages. Open a tab before applying emulation.")
		return nil, nil, &r
	}

	selected := live[0]
	if tabID != "" {
		found := false
		for _, p := range live {
			if p.ID() == tabID {
				selected, found = p, true
				break
			}
		}
		if !found {
			r := failure(fmt.Sprintf("Page %s not found or already closed.", tabID))
			return nil, nil, &r
		}
	}
	return live, selected, nil
}

// selectedNavigation reads the selected page's URL. The read is guarded;
// on failure the page is treated as still blank.
func selectedNavigation(ctx context.Context, selected Page) (string, bool) {
	url, err := selected.URL(ctx)
	if err != nil {
		slog.Debug("selected page url read failed", "page", selected.ID(), "err", err)
		return "", false
	}
	return url, url != "" && url != aboutBlank
}

// classify builds the target set: the selected page first, then every
// other live page whose URL is neither blank nor the selected page's.
// URL read failures skip the page silently; it likely just closed.
func classify(ctx context.Context, snapshot []Page, selected Page, selectedURL string) []Page {
	targets := []Page{selected}
	if len(snapshot) < 2 {
		return targets
	}
	for _, p := range snapshot {
		if p.ID() == selected.ID() {
			continue
		}
		url, err := p.URL(ctx)
		if err != nil {
			slog.Debug("skipping page with unreadable url", "page", p.ID(), "err", err)
			continue
		}
		if url == "" || url == aboutBlank || url == selectedURL {
			continue
		}
		targets = append(targets, p)
	}
	return targets
}

// applyDevice applies the descriptor to each target independently. One
// page's failure never aborts the rest.
func (o *Orchestrator) applyDevice(ctx context.Context, targets []Page, desc devices.Descriptor, uaOverride string) []Outcome {
	ua := desc.UserAgent
	if uaOverride != "" {
		ua = uaOverride
	}

	outcomes := make([]Outcome, 0, len(targets))
	for _, p := range targets {
		url := lastKnownURL(ctx, p)
		if p.Closed() {
			outcomes = append(outcomes, Outcome{PageID: p.ID(), URL: url, Reason: "page closed"})
			continue
		}
		if err := p.EmulateDevice(ctx, ua, desc.Viewport); err != nil {
			outcomes = append(outcomes, Outcome{PageID: p.ID(), URL: url, Reason: err.Error()})
			continue
		}
		outcomes = append(outcomes, Outcome{PageID: p.ID(), URL: url, OK: true})
	}
	return outcomes
}

func filterLive(pages []Page) []Page {
	live := make([]Page, 0, len(pages))
	for _, p := range pages {
		if !p.Closed() {
			live = append(live, p)
		}
	}
	return live
}

func lastKnownURL(ctx context.Context, p Page) string {
	url, err := p.URL(ctx)
	if err != nil {
		return ""
	}
	return url
}
