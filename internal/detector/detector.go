package detector

import (
	"sort"
	"sync"
	"time"
)

// State is the probe state of one member.
type State int

const (
	Pending State = iota
	AwaitingAck
	Failed
	Confirmed
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case AwaitingAck:
		return "AWAITING_ACK"
	case Failed:
		return "FAILED"
	case Confirmed:
		return "CONFIRMED"
	default:
		return "UNKNOWN"
	}
}

// Timeouts configures the detector.
type Timeouts struct {
	// Ping is how long to wait for a direct ack before probing indirectly.
	Ping time.Duration
	// PingReq is how long to wait for a relayed ack before suspecting.
	PingReq time.Duration
	// Suspicion is how long a member stays suspect before it is confirmed.
	Suspicion time.Duration
}

// DefaultTimeouts returns the timeouts used when none are configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Ping:      1 * time.Second,
		PingReq:   2 * time.Second,
		Suspicion: 5 * time.Second,
	}
}

type entry struct {
	state    State
	indirect bool
	deadline time.Time
}

// Transitions is what one Tick decided.
type Transitions struct {
	PingReq []string
	Suspect []string
	Confirm []string
}

// Empty reports whether nothing happened.
func (t Transitions) Empty() bool {
	return len(t.PingReq) == 0 && len(t.Suspect) == 0 && len(t.Confirm) == 0
}

// Detector is the per-member timer table.
type Detector struct {
	mu       sync.Mutex
	timeouts Timeouts
	now      func() time.Time
	entries  map[string]*entry
}

// New creates a detector. Zero timeouts fall back to DefaultTimeouts; a nil
// now uses time.Now.
func New(timeouts Timeouts, now func() time.Time) *Detector {
	def := DefaultTimeouts()
	if timeouts.Ping <= 0 {
		timeouts.Ping = def.Ping
	}
	if timeouts.PingReq <= 0 {
		timeouts.PingReq = def.PingReq
	}
	if timeouts.Suspicion <= 0 {
		timeouts.Suspicion = def.Suspicion
	}
	if now == nil {
		now = time.Now
	}
	return &Detector{
		timeouts: timeouts,
		now:      now,
		entries:  make(map[string]*entry),
	}
}

// Start records a new probe of id as Pending, replacing a Confirmed entry.
// It returns false if a probe or suspicion is already running.
func (d *Detector) Start(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.entries[id]; ok && e.state != Confirmed {
		return false
	}
	d.entries[id] = &entry{state: Pending, deadline: d.now().Add(d.timeouts.Ping)}
	return true
}

// Sent moves id to AwaitingAck once the direct ping left.
func (d *Detector) Sent(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.entries[id]; ok && e.state == Pending {
		e.state = AwaitingAck
		e.deadline = d.now().Add(d.timeouts.Ping)
	}
}

// Escalate switches id straight to the indirect probe phase, used when the
// direct ping could not be sent at all.
func (d *Detector) Escalate(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.entries[id]; ok && (e.state == Pending || e.state == AwaitingAck) {
		e.state = AwaitingAck
		e.indirect = true
		e.deadline = d.now().Add(d.timeouts.PingReq)
	}
}

// Ack cancels any timer for id. It reports whether one existed.
func (d *Detector) Ack(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.entries[id]
	delete(d.entries, id)
	return ok
}

// Forget drops id without treating it as an ack.
func (d *Detector) Forget(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.entries, id)
}

// Track adopts a member that is suspect according to the cluster but is not
// being probed locally, so it resolves to Confirmed unless it refutes.
func (d *Detector) Track(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[id]; ok {
		return false
	}
	d.entries[id] = &entry{state: Failed, deadline: d.now().Add(d.timeouts.Suspicion)}
	return true
}

// State returns the state of id.
func (d *Detector) State(id string) (State, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.entries[id]
	if !ok {
		return 0, false
	}
	return e.state, true
}

// InFlight reports whether a direct or indirect probe of id is outstanding.
func (d *Detector) InFlight(id string) bool {
	s, ok := d.State(id)
	return ok && (s == Pending || s == AwaitingAck)
}

// Len returns the number of tracked members.
func (d *Detector) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// Tick advances every expired timer by one step and reports the resulting
// transitions, each list sorted by member id.
func (d *Detector) Tick() Transitions {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	var out Transitions
	for id, e := range d.entries {
		if now.Before(e.deadline) {
			continue
		}
		switch e.state {
		case Pending, AwaitingAck:
			if !e.indirect {
				e.state = AwaitingAck
				e.indirect = true
				e.deadline = now.Add(d.timeouts.PingReq)
				out.PingReq = append(out.PingReq, id)
				continue
			}
			e.state = Failed
			e.deadline = now.Add(d.timeouts.Suspicion)
			out.Suspect = append(out.Suspect, id)
		case Failed:
			e.state = Confirmed
			out.Confirm = append(out.Confirm, id)
		}
	}

	sort.Strings(out.PingReq)
	sort.Strings(out.Suspect)
	sort.Strings(out.Confirm)
	return out
}
