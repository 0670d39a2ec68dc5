package bridge

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/emutab/emutab/internal/devices"
	"github.com/emutab/emutab/internal/emulate"
	"github.com/emutab/emutab/internal/netconds"
)

const defaultPageTimeout = 15 * time.Second

// Pages snapshots the open page targets as emulation collaborators.
// Targets that vanish between listing and attach are dropped here;
// anything that vanishes later surfaces as a per-page apply error.
func (b *Bridge) Pages(ctx context.Context) ([]emulate.Page, error) {
	targets, err := b.ListTargets()
	if err != nil {
		return nil, err
	}

	timeout := defaultPageTimeout
	if b.Config != nil && b.Config.ActionTimeout > 0 {
		timeout = b.Config.ActionTimeout
	}

	pages := make([]emulate.Page, 0, len(targets))
	for _, t := range targets {
		tabCtx, id, err := b.TabContext(string(t.TargetID))
		if err != nil {
			continue
		}
		pages = append(pages, &cdpPage{id: id, ctx: tabCtx, timeout: timeout})
	}
	return pages, nil
}

// cdpPage binds one tab's chromedp context to the emulation primitives.
type cdpPage struct {
	id      string
	ctx     context.Context
	timeout time.Duration
}

func (p *cdpPage) ID() string { return p.id }

// Closed is advisory: the tab context is canceled when the target
// detaches or the manager sweeps it. A false answer can go stale at any
// time; callers treat apply errors as the authority.
func (p *cdpPage) Closed() bool {
	return p.ctx.Err() != nil
}

func (p *cdpPage) URL(ctx context.Context) (string, error) {
	var info *target.Info
	err := p.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		var err error
		info, err = target.GetTargetInfo().Do(c)
		return err
	}))
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (p *cdpPage) EmulateDevice(ctx context.Context, userAgent string, vp devices.Viewport) error {
	orientation := &emulation.ScreenOrientation{Type: emulation.OrientationTypePortraitPrimary, Angle: 0}
	if vp.IsLandscape {
		orientation = &emulation.ScreenOrientation{Type: emulation.OrientationTypeLandscapePrimary, Angle: 90}
	}

	return p.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		if err := emulation.SetDeviceMetricsOverride(vp.Width, vp.Height, vp.DeviceScaleFactor, vp.IsMobile).
			WithScreenOrientation(orientation).
			Do(c); err != nil {
			return err
		}
		if err := emulation.SetTouchEmulationEnabled(vp.HasTouch).Do(c); err != nil {
			return err
		}
		return userAgentOverride(userAgent, vp.IsMobile).Do(c)
	}))
}

func (p *cdpPage) EmulateNetwork(ctx context.Context, profile *netconds.Profile) error {
	return p.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		if profile == nil {
			// -1 throughput disables throttling on that direction.
			return network.EmulateNetworkConditions(false, 0, -1, -1).Do(c)
		}
		return network.EmulateNetworkConditions(profile.Offline, profile.Latency, profile.Download, profile.Upload).Do(c)
	}))
}

func (p *cdpPage) ThrottleCPU(ctx context.Context, rate float64) error {
	return p.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		return emulation.SetCPUThrottlingRate(rate).Do(c)
	}))
}

// run executes an action against the tab with a bounded timeout, wired
// to the caller's context so client disconnects cancel the CDP call.
func (p *cdpPage) run(ctx context.Context, action chromedp.Action) error {
	tCtx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(tCtx, action)
}

// userAgentOverride builds the UA override with client-hints metadata
// matching the emulated platform.
func userAgentOverride(userAgent string, mobile bool) *emulation.SetUserAgentOverrideParams {
	params := emulation.SetUserAgentOverride(userAgent).WithAcceptLanguage("en-US,en")

	platform, metaPlatform := "MacIntel", "macOS"
	switch {
	case strings.Contains(userAgent, "iPhone") || strings.Contains(userAgent, "iPad"):
		platform, metaPlatform = "iPhone", "iOS"
	case strings.Contains(userAgent, "Android"):
		platform, metaPlatform = "Linux armv8l", "Android"
	case mobile:
		platform, metaPlatform = "Linux armv8l", "Android"
	}

	return params.
		WithPlatform(platform).
		WithUserAgentMetadata(&emulation.UserAgentMetadata{
			Platform: metaPlatform,
			Mobile:   mobile,
		})
}
