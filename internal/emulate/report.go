package emulate

import (
	"context"
	"fmt"
	"strings"

	"github.com/emutab/emutab/internal/devices"
)

// Fixed guidance appended when a device request fails on every page.
var failureSuggestions = []string{
	"Suggestions:",
	"- verify the target pages are still open (GET /tabs)",
	"- chrome:// and devtools:// pages reject emulation overrides",
	"- retry against a single page by passing tabId",
	"- restart the browser session if the problem persists",
}

// summarizeDevice folds per-page outcomes into the final report. It
// always produces a report; a single successful page makes the whole
// request a success.
func summarizeDevice(outcomes []Outcome, resolved string, desc devices.Descriptor, customUA bool, notes []string) Result {
	succeeded := 0
	for _, out := range outcomes {
		if out.OK {
			succeeded++
		}
	}

	lines := append([]string{}, notes...)

	if succeeded > 0 {
		vp := desc.Viewport
		lines = append(lines, fmt.Sprintf(
			"Device emulation set to %s on %d of %d page(s): %dx%d @%gx%s.",
			resolved, succeeded, len(outcomes), vp.Width, vp.Height, vp.DeviceScaleFactor, viewportTraits(vp)))
		if customUA {
			lines = append(lines, "Custom user agent applied.")
		}
		for _, out := range outcomes {
			if !out.OK {
				lines = append(lines, fmt.Sprintf("Failed on %s: %s", pageLabel(out.PageID, out.URL), out.Reason))
			}
		}
		return Result{
			OK:        true,
			Device:    resolved,
			Succeeded: succeeded,
			Outcomes:  outcomes,
			Report:    lines,
		}
	}

	lines = append(lines, fmt.Sprintf("Device emulation failed on all %d target page(s):", len(outcomes)))
	for _, out := range outcomes {
		lines = append(lines, fmt.Sprintf("- %s: %s", pageLabel(out.PageID, out.URL), out.Reason))
	}
	lines = append(lines, failureSuggestions...)
	return Result{Device: resolved, Outcomes: outcomes, Report: lines}
}

// multiPageNote names the additional navigated pages joining the batch.
func multiPageNote(ctx context.Context, extra []Page) string {
	urls := make([]string, 0, len(extra))
	for _, p := range extra {
		urls = append(urls, pageLabel(p.ID(), lastKnownURL(ctx, p)))
	}
	return fmt.Sprintf("Including %d additional navigated page(s): %s.", len(extra), joinURLs(urls))
}

func viewportTraits(vp devices.Viewport) string {
	var traits []string
	if vp.IsMobile {
		traits = append(traits, "mobile")
	}
	if vp.HasTouch {
		traits = append(traits, "touch")
	}
	if vp.IsLandscape {
		traits = append(traits, "landscape")
	}
	if len(traits) == 0 {
		return ""
	}
	return ", " + strings.Join(traits, ", ")
}

func pageLabel(id, url string) string {
	if url != "" {
		return url
	}
	return "page " + id
}

func joinURLs(items []string) string {
	return strings.Join(items, ", ")
}
