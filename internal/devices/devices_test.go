package devices

import (
	"strings"
	"testing"
)

func TestResolveKnownNames(t *testing.T) {
	for _, name := range catalogOrder {
		resolved, d := Resolve(name)
		if resolved != name {
			t.Errorf("Resolve(%q) resolved to %q", name, resolved)
		}
		if d.Name != name {
			t.Errorf("Resolve(%q) descriptor name %q", name, d.Name)
		}
		if d.UserAgent == "" || d.Viewport.Width <= 0 || d.Viewport.Height <= 0 {
			t.Errorf("Resolve(%q) incomplete descriptor: %+v", name, d)
		}
	}
}

func TestResolveDefault(t *testing.T) {
	resolved, d := Resolve("")
	if resolved != DefaultName {
		t.Fatalf("empty name resolved to %q, want %q", resolved, DefaultName)
	}
	if d.Viewport.Width != 375 || d.Viewport.Height != 667 {
		t.Fatalf("unexpected default viewport: %+v", d.Viewport)
	}
}

func TestResolveUnknownFallsBack(t *testing.T) {
	for _, bogus := range []string{"iPhone 99", "Galaxy Fold 9", "not a device"} {
		resolved, d := Resolve(bogus)
		if resolved == bogus {
			t.Fatalf("unknown name %q was not replaced", bogus)
		}
		if !Known(resolved) {
			t.Fatalf("fallback %q not in catalog", resolved)
		}
		if !commonName(resolved) {
			t.Fatalf("fallback %q outside curated subset", resolved)
		}
		if d.Name != resolved {
			t.Fatalf("fallback descriptor name %q != %q", d.Name, resolved)
		}
	}
}

func TestCommonMobileExcludesDenylist(t *testing.T) {
	for _, d := range CommonMobile() {
		lower := strings.ToLower(d.Name)
		if strings.Contains(lower, "landscape") {
			t.Errorf("curated subset contains landscape variant %q", d.Name)
		}
		for _, deny := range denylist {
			if strings.Contains(lower, deny) {
				t.Errorf("curated subset contains denylisted device %q", d.Name)
			}
		}
	}
}

func TestCommonMobileOrderStable(t *testing.T) {
	names := CommonMobileNames()
	if len(names) == 0 {
		t.Fatal("curated subset is empty")
	}
	if names[0] != DefaultName {
		t.Fatalf("first curated device is %q, want %q", names[0], DefaultName)
	}
}

func TestAllNamesCoversCatalog(t *testing.T) {
	names := AllNames()
	if len(names) != len(catalog) {
		t.Fatalf("AllNames() returned %d entries, catalog has %d", len(names), len(catalog))
	}
	for _, name := range names {
		if !Known(name) {
			t.Errorf("listed name %q missing from catalog", name)
		}
	}
}

func TestDesktopDescriptor(t *testing.T) {
	vp := Desktop.Viewport
	if vp.Width != 1920 || vp.Height != 1080 || vp.DeviceScaleFactor != 1 {
		t.Fatalf("unexpected desktop viewport: %+v", vp)
	}
	if vp.IsMobile || vp.HasTouch {
		t.Fatal("desktop viewport must not be mobile or touch")
	}
	if !vp.IsLandscape {
		t.Fatal("desktop viewport must be landscape")
	}
}
