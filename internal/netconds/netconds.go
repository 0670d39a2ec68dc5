// Package netconds holds the named network condition presets used by the
// network emulation tool.
package netconds

// Profile describes simulated network conditions. Throughput is in
// bytes/second, latency in milliseconds.
type Profile struct {
	Name     string  `json:"name"`
	Download float64 `json:"download"`
	Upload   float64 `json:"upload"`
	Latency  float64 `json:"latency"`
	Offline  bool    `json:"offline"`
}

// NoEmulation is the sentinel name that clears network emulation.
const NoEmulation = "No emulation"

// Preset throughput values follow the devtools presets: nominal link
// speed derated by 10%, latency multiplied per preset.
var order = []string{NoEmulation, "Offline", "Slow 3G", "Slow 4G", "Fast 4G"}

var presets = map[string]*Profile{
	NoEmulation: nil,
	"Offline":   {Name: "Offline", Offline: true},
	"Slow 3G": {
		Name:     "Slow 3G",
		Download: 500 * 1000 / 8 * 0.8,
		Upload:   500 * 1000 / 8 * 0.8,
		Latency:  400 * 5,
	},
	"Slow 4G": {
		Name:     "Slow 4G",
		Download: 1.6 * 1000 * 1000 / 8 * 0.9,
		Upload:   750 * 1000 / 8 * 0.9,
		Latency:  150 * 3.75,
	},
	"Fast 4G": {
		Name:     "Fast 4G",
		Download: 4 * 1000 * 1000 / 8 * 0.9,
		Upload:   3 * 1000 * 1000 / 8 * 0.9,
		Latency:  60 * 2.75,
	},
}

// aliases map legacy devtools preset names onto current ones.
var aliases = map[string]string{
	"Fast 3G": "Slow 4G",
}

// Resolve looks up a preset by name. A nil profile with ok=true means
// "clear emulation". ok=false means the name is not a known preset.
func Resolve(name string) (*Profile, bool) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	p, ok := presets[name]
	return p, ok
}

// Names lists the accepted preset names in a stable order.
func Names() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}
