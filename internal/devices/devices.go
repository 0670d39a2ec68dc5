// Package devices holds the static mobile device catalog used for
// device emulation, with fallback resolution for unknown names.
package devices

import "strings"

type Viewport struct {
	Width             int64   `json:"width"`
	Height            int64   `json:"height"`
	DeviceScaleFactor float64 `json:"deviceScaleFactor"`
	IsMobile          bool    `json:"isMobile"`
	HasTouch          bool    `json:"hasTouch"`
	IsLandscape       bool    `json:"isLandscape"`
}

type Descriptor struct {
	Name      string   `json:"name"`
	UserAgent string   `json:"userAgent"`
	Viewport  Viewport `json:"viewport"`
}

// DefaultName is used when a request omits the device name.
const DefaultName = "iPhone 8"

// Desktop is the fixed identity applied by the "No emulation" path.
var Desktop = Descriptor{
	Name:      "Desktop",
	UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	Viewport:  Viewport{Width: 1920, Height: 1080, DeviceScaleFactor: 1, IsLandscape: true},
}

// catalogOrder keeps lookup deterministic; the map alone would not be.
var catalogOrder = []string{
	"iPhone 8",
	"iPhone 8 Plus",
	"iPhone 8 landscape",
	"iPhone SE",
	"iPhone X",
	"iPhone 12 Pro",
	"iPhone 13 Pro Max",
	"iPhone 15 Pro",
	"iPad",
	"iPad Pro 11",
	"Pixel 4",
	"Pixel 5",
	"Pixel 7",
	"Pixel 7 landscape",
	"Galaxy S8",
	"Galaxy S9+",
	"Galaxy Tab S4",
	"Moto G4",
	"Nexus 5",
	"BlackBerry Z30",
	"Nokia Lumia 520",
	"Kindle Fire HDX",
	"JioPhone 2",
	"LG Optimus L70",
}

var catalog = map[string]Descriptor{
	"iPhone 8": {
		Name:      "iPhone 8",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 11_0 like Mac OS X) AppleWebKit/604.1.38 (KHTML, like Gecko) Version/11.0 Mobile/15A372 Safari/604.1",
		Viewport:  Viewport{Width: 375, Height: 667, DeviceScaleFactor: 2, IsMobile: true, HasTouch: true},
	},
	"iPhone 8 Plus": {
		Name:      "iPhone 8 Plus",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 11_0 like Mac OS X) AppleWebKit/604.1.38 (KHTML, like Gecko) Version/11.0 Mobile/15A372 Safari/604.1",
		Viewport:  Viewport{Width: 414, Height: 736, DeviceScaleFactor: 3, IsMobile: true, HasTouch: true},
	},
	"iPhone 8 landscape": {
		Name:      "iPhone 8 landscape",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 11_0 like Mac OS X) AppleWebKit/604.1.38 (KHTML, like Gecko) Version/11.0 Mobile/15A372 Safari/604.1",
		Viewport:  Viewport{Width: 667, Height: 375, DeviceScaleFactor: 2, IsMobile: true, HasTouch: true, IsLandscape: true},
	},
	"iPhone SE": {
		Name:      "iPhone SE",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 10_3_1 like Mac OS X) AppleWebKit/603.1.30 (KHTML, like Gecko) Version/10.0 Mobile/14E304 Safari/602.1",
		Viewport:  Viewport{Width: 320, Height: 568, DeviceScaleFactor: 2, IsMobile: true, HasTouch: true},
	},
	"iPhone X": {
		Name:      "iPhone X",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 11_0 like Mac OS X) AppleWebKit/604.1.38 (KHTML, like Gecko) Version/11.0 Mobile/15A372 Safari/604.1",
		Viewport:  Viewport{Width: 375, Height: 812, DeviceScaleFactor: 3, IsMobile: true, HasTouch: true},
	},
	"iPhone 12 Pro": {
		Name:      "iPhone 12 Pro",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 14_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.1 Mobile/15E148 Safari/604.1",
		Viewport:  Viewport{Width: 390, Height: 844, DeviceScaleFactor: 3, IsMobile: true, HasTouch: true},
	},
	"iPhone 13 Pro Max": {
		Name:      "iPhone 13 Pro Max",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 15_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Mobile/15E148 Safari/604.1",
		Viewport:  Viewport{Width: 428, Height: 926, DeviceScaleFactor: 3, IsMobile: true, HasTouch: true},
	},
	"iPhone 15 Pro": {
		Name:      "iPhone 15 Pro",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
		Viewport:  Viewport{Width: 393, Height: 852, DeviceScaleFactor: 3, IsMobile: true, HasTouch: true},
	},
	"iPad": {
		Name:      "iPad",
		UserAgent: "Mozilla/5.0 (iPad; CPU OS 11_0 like Mac OS X) AppleWebKit/604.1.34 (KHTML, like Gecko) Version/11.0 Mobile/15A5341f Safari/604.1",
		Viewport:  Viewport{Width: 768, Height: 1024, DeviceScaleFactor: 2, IsMobile: true, HasTouch: true},
	},
	"iPad Pro 11": {
		Name:      "iPad Pro 11",
		UserAgent: "Mozilla/5.0 (iPad; CPU OS 11_0 like Mac OS X) AppleWebKit/604.1.34 (KHTML, like Gecko) Version/11.0 Mobile/15A5341f Safari/604.1",
		Viewport:  Viewport{Width: 834, Height: 1194, DeviceScaleFactor: 2, IsMobile: true, HasTouch: true},
	},
	"Pixel 4": {
		Name:      "Pixel 4",
		UserAgent: "Mozilla/5.0 (Linux; Android 10; Pixel 4) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/87.0.4280.141 Mobile Safari/537.36",
		Viewport:  Viewport{Width: 353, Height: 745, DeviceScaleFactor: 3, IsMobile: true, HasTouch: true},
	},
	"Pixel 5": {
		Name:      "Pixel 5",
		UserAgent: "Mozilla/5.0 (Linux; Android 11; Pixel 5) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.91 Mobile Safari/537.36",
		Viewport:  Viewport{Width: 393, Height: 851, DeviceScaleFactor: 2.75, IsMobile: true, HasTouch: true},
	},
	"Pixel 7": {
		Name:      "Pixel 7",
		UserAgent: "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Mobile Safari/537.36",
		Viewport:  Viewport{Width: 412, Height: 915, DeviceScaleFactor: 2.625, IsMobile: true, HasTouch: true},
	},
	"Pixel 7 landscape": {
		Name:      "Pixel 7 landscape",
		UserAgent: "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Mobile Safari/537.36",
		Viewport:  Viewport{Width: 915, Height: 412, DeviceScaleFactor: 2.625, IsMobile: true, HasTouch: true, IsLandscape: true},
	},
	"Galaxy S8": {
		Name:      "Galaxy S8",
		UserAgent: "Mozilla/5.0 (Linux; Android 7.0; SM-G950U Build/NRD90M) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/62.0.3202.84 Mobile Safari/537.36",
		Viewport:  Viewport{Width: 360, Height: 740, DeviceScaleFactor: 3, IsMobile: true, HasTouch: true},
	},
	"Galaxy S9+": {
		Name:      "Galaxy S9+",
		UserAgent: "Mozilla/5.0 (Linux; Android 8.0.0; SM-G965U Build/R16NW) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/63.0.3239.111 Mobile Safari/537.36",
		Viewport:  Viewport{Width: 320, Height: 658, DeviceScaleFactor: 4.5, IsMobile: true, HasTouch: true},
	},
	"Galaxy Tab S4": {
		Name:      "Galaxy Tab S4",
		UserAgent: "Mozilla/5.0 (Linux; Android 8.1.0; SM-T837A) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/70.0.3538.80 Safari/537.36",
		Viewport:  Viewport{Width: 712, Height: 1138, DeviceScaleFactor: 2.25, IsMobile: true, HasTouch: true},
	},
	"Moto G4": {
		Name:      "Moto G4",
		UserAgent: "Mozilla/5.0 (Linux; Android 7.0; Moto G (4)) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/87.0.4280.141 Mobile Safari/537.36",
		Viewport:  Viewport{Width: 360, Height: 640, DeviceScaleFactor: 3, IsMobile: true, HasTouch: true},
	},
	"Nexus 5": {
		Name:      "Nexus 5",
		UserAgent: "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/87.0.4280.141 Mobile Safari/537.36",
		Viewport:  Viewport{Width: 360, Height: 640, DeviceScaleFactor: 3, IsMobile: true, HasTouch: true},
	},
	"BlackBerry Z30": {
		Name:      "BlackBerry Z30",
		UserAgent: "Mozilla/5.0 (BB10; Touch) AppleWebKit/537.10+ (KHTML, like Gecko) Version/10.0.9.2372 Mobile Safari/537.10+",
		Viewport:  Viewport{Width: 360, Height: 640, DeviceScaleFactor: 2, IsMobile: true, HasTouch: true},
	},
	"Nokia Lumia 520": {
		Name:      "Nokia Lumia 520",
		UserAgent: "Mozilla/5.0 (compatible; MSIE 10.0; Windows Phone 8.0; Trident/6.0; IEMobile/10.0; ARM; Touch; NOKIA; Lumia 520)",
		Viewport:  Viewport{Width: 320, Height: 533, DeviceScaleFactor: 1.5, IsMobile: true, HasTouch: true},
	},
	"Kindle Fire HDX": {
		Name:      "Kindle Fire HDX",
		UserAgent: "Mozilla/5.0 (Linux; U; en-us; KFAPWI Build/JDQ39) AppleWebKit/535.19 (KHTML, like Gecko) Silk/3.13 Safari/535.19 Silk-Accelerated=true",
		Viewport:  Viewport{Width: 800, Height: 1280, DeviceScaleFactor: 2, IsMobile: true, HasTouch: true},
	},
	"JioPhone 2": {
		Name:      "JioPhone 2",
		UserAgent: "Mozilla/5.0 (Mobile; LYF/F300B/LYF-F300B-001-01-15-130718-i;Android; rv:48.0) Gecko/48.0 Firefox/48.0 KAIOS/2.5",
		Viewport:  Viewport{Width: 240, Height: 320, DeviceScaleFactor: 1, IsMobile: true, HasTouch: true},
	},
	"LG Optimus L70": {
		Name:      "LG Optimus L70",
		UserAgent: "Mozilla/5.0 (Linux; U; Android 4.4.2; en-us; LGMS323 Build/KOT49I.MS32310c) AppleWebKit/537.36 (KHTML, like Gecko) Version/4.0 Chrome/34.0.1847.118 Mobile Safari/537.36",
		Viewport:  Viewport{Width: 384, Height: 640, DeviceScaleFactor: 1.25, IsMobile: true, HasTouch: true},
	},
}

// denylist excludes uncommon or legacy device families from the curated
// fallback subset. Matched case-insensitively against the device name.
var denylist = []string{"blackberry", "lumia", "nokia", "kindle", "jio", "optimus"}

// Resolve maps a requested device name to a usable descriptor. An empty
// name yields the default device; an unknown name falls back to the first
// curated common device. It never fails.
func Resolve(name string) (string, Descriptor) {
	if name == "" {
		name = DefaultName
	}
	if d, ok := catalog[name]; ok {
		return name, d
	}
	fallback := CommonMobile()[0]
	return fallback.Name, fallback
}

// Known reports whether the name is present in the catalog.
func Known(name string) bool {
	_, ok := catalog[name]
	return ok
}

// CommonMobile returns the curated subset of the catalog, in catalog
// order, excluding landscape variants and denylisted device families.
func CommonMobile() []Descriptor {
	out := make([]Descriptor, 0, len(catalogOrder))
	for _, name := range catalogOrder {
		if !commonName(name) {
			continue
		}
		out = append(out, catalog[name])
	}
	return out
}

// AllNames returns every catalog entry in catalog order.
func AllNames() []string {
	names := make([]string, len(catalogOrder))
	copy(names, catalogOrder)
	return names
}

// CommonMobileNames returns the curated subset's names for reports.
func CommonMobileNames() []string {
	common := CommonMobile()
	names := make([]string, len(common))
	for i, d := range common {
		names[i] = d.Name
	}
	return names
}

func commonName(name string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "landscape") {
		return false
	}
	for _, deny := range denylist {
		if strings.Contains(lower, deny) {
			return false
		}
	}
	return true
}
