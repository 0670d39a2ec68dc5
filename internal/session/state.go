// Package session tracks the emulation settings last applied to the
// browsing session, so tools and queries can report current state.
package session

import "sync"

// DefaultCPURate means CPU throttling is disabled.
const DefaultCPURate = 1.0

// Info is a point-in-time copy of the session emulation state.
type Info struct {
	NetworkProfile string  `json:"networkProfile,omitempty"`
	CPURate        float64 `json:"cpuRate"`
	Device         string  `json:"device,omitempty"`
}

// State records what was actually applied. Each emulation kind moves
// independently: set on a successful apply, cleared on an explicit
// disable, untouched on failure.
type State struct {
	mu      sync.RWMutex
	network string
	cpuRate float64
	device  string
}

func New() *State {
	return &State{cpuRate: DefaultCPURate}
}

func (s *State) SetNetwork(profile string) {
	s.mu.Lock()
	s.network = profile
	s.mu.Unlock()
}

func (s *State) ClearNetwork() {
	s.SetNetwork("")
}

func (s *State) SetCPURate(rate float64) {
	s.mu.Lock()
	s.cpuRate = rate
	s.mu.Unlock()
}

func (s *State) ClearCPURate() {
	s.SetCPURate(DefaultCPURate)
}

func (s *State) SetDevice(name string) {
	s.mu.Lock()
	s.device = name
	s.mu.Unlock()
}

func (s *State) ClearDevice() {
	s.SetDevice("")
}

func (s *State) Snapshot() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Info{
		NetworkProfile: s.network,
		CPURate:        s.cpuRate,
		Device:         s.device,
	}
}
