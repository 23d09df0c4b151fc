// peripheral_registry.go - activation lifecycle for optional hardware
// (spec §4.9's "peripheral registry"): tracks which peripherals this
// machine may carry, and adds/removes their port entries from the
// PortDispatcher as they're activated or deactivated.

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

// Presence describes how compatible a peripheral is with the current
// machine: never attachable, optional (user-controlled), or always on.
type Presence int

const (
	PresenceNever Presence = iota
	PresenceOptional
	PresenceAlways
)

// peripheralEntry tracks one registry slot: its compatibility, the user's
// request to enable it, its live activation state, and the hooks that wire
// it onto (or off of) the port dispatcher.
type peripheralEntry struct {
	present  Presence
	wanted   bool
	active   bool
	ports    []PortEntry
	activate func()
	deactivate func()
}

// PeripheralRegistry is the global map of named peripherals to their
// lifecycle state, per spec §4.9.
type PeripheralRegistry struct {
	dispatcher *PortDispatcher
	entries    map[string]*peripheralEntry
}

func NewPeripheralRegistry(dispatcher *PortDispatcher) *PeripheralRegistry {
	return &PeripheralRegistry{
		dispatcher: dispatcher,
		entries:    make(map[string]*peripheralEntry),
	}
}

// Register declares a peripheral's port entries and optional
// activate/deactivate hooks without touching its presence or active state.
func (r *PeripheralRegistry) Register(name string, ports []PortEntry, activate, deactivate func()) {
	r.entries[name] = &peripheralEntry{ports: ports, activate: activate, deactivate: deactivate}
}

// SetPresent records machine-level compatibility for a peripheral (spec
// §4.9's `set_present`). Setting a present peripheral to NEVER deactivates
// it immediately.
func (r *PeripheralRegistry) SetPresent(name string, p Presence) {
	e, ok := r.entries[name]
	if !ok {
		return
	}
	e.present = p
	if p == PresenceNever && e.active {
		r.deactivate(name, e)
	}
}

// Want records the user's request to enable/disable an optional
// peripheral; takes effect on the next Update.
func (r *PeripheralRegistry) Want(name string, wanted bool) {
	if e, ok := r.entries[name]; ok {
		e.wanted = wanted
	}
}

// Update (re-)activates or deactivates every peripheral according to its
// presence and the user's wishes, per spec §4.9.
func (r *PeripheralRegistry) Update() {
	for name, e := range r.entries {
		shouldBeActive := e.present == PresenceAlways || (e.present == PresenceOptional && e.wanted)
		switch {
		case shouldBeActive && !e.active:
			r.activateEntry(name, e)
		case !shouldBeActive && e.active:
			r.deactivate(name, e)
		}
	}
}

func (r *PeripheralRegistry) activateEntry(name string, e *peripheralEntry) {
	for _, p := range e.ports {
		r.dispatcher.Add(p)
	}
	if e.activate != nil {
		e.activate()
	}
	e.active = true
}

func (r *PeripheralRegistry) deactivate(name string, e *peripheralEntry) {
	for _, p := range e.ports {
		r.dispatcher.Remove(p.Mask, p.Value)
	}
	if e.deactivate != nil {
		e.deactivate()
	}
	e.active = false
}

// IsActive reports whether the named peripheral currently has its ports on
// the dispatcher.
func (r *PeripheralRegistry) IsActive(name string) bool {
	e, ok := r.entries[name]
	return ok && e.active
}
