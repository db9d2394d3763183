package member

import (
	"math/rand"
	"sort"
	"sync"

	"rumormill/internal/rumor"
	"rumormill/internal/storage"
)

// List is the set of known members and their health.
type List struct {
	store *storage.Store[*rumor.Membership]

	// probe order
	mu    sync.Mutex
	order []string
	pos   int
	rng   *rand.Rand
}

// NewList creates an empty member list.
func NewList() *List {
	return &List{
		store: storage.New[*rumor.Membership](),
		rng:   rand.New(rand.NewSource(rand.Int63())),
	}
}

// Store exposes the underlying membership rumor store.
func (l *List) Store() *storage.Store[*rumor.Membership] {
	return l.store
}

// Insert merges m with the given health. It returns true if the member is
// new or any field changed.
func (l *List) Insert(m rumor.Member, health rumor.Health) bool {
	return l.store.Insert(&rumor.Membership{Member: m, Health: health})
}

// InsertMembership merges a membership rumor.
func (l *List) InsertMembership(m *rumor.Membership) bool {
	return l.store.Insert(m)
}

// Replace overwrites the record for m.ID regardless of merge order. Only a
// member may do this to its own record.
func (l *List) Replace(m rumor.Member, health rumor.Health) {
	l.store.Remove(rumor.MembershipKey, m.ID)
	l.store.Insert(&rumor.Membership{Member: m, Health: health})
}

// InsertHealth applies health to a known member at its current incarnation.
// Merge rules still apply, so a less severe health is ignored.
func (l *List) InsertHealth(id string, health rumor.Health) bool {
	m, ok := l.store.Get(rumor.MembershipKey, id)
	if !ok {
		return false
	}
	m.Health = health
	return l.store.Insert(m)
}

// Suspect demotes id to Suspect. It is a no-op if already Suspect or worse.
func (l *List) Suspect(id string) bool {
	return l.InsertHealth(id, rumor.Suspect)
}

// Confirm demotes id to Confirmed. It is a no-op if already Confirmed or Departed.
func (l *List) Confirm(id string) bool {
	return l.InsertHealth(id, rumor.Confirmed)
}

// Depart marks id as Departed for good.
func (l *List) Depart(id string) bool {
	return l.InsertHealth(id, rumor.Departed)
}

// HealthOf returns the health of id.
func (l *List) HealthOf(id string) (rumor.Health, bool) {
	var h rumor.Health
	ok := l.store.WithRumor(rumor.MembershipKey, id, func(m *rumor.Membership) {
		h = m.Health
	})
	return h, ok
}

// Get returns a copy of the membership for id.
func (l *List) Get(id string) (*rumor.Membership, bool) {
	return l.store.Get(rumor.MembershipKey, id)
}

// Members returns a snapshot of every membership, sorted by id.
func (l *List) Members() []*rumor.Membership {
	var out []*rumor.Membership
	l.store.WithRumors(rumor.MembershipKey, func(m *rumor.Membership) {
		out = append(out, m.Clone())
	})
	return out
}

// Len returns the number of known members.
func (l *List) Len() int {
	return l.store.LenForKey(rumor.MembershipKey)
}

// CountByHealth returns how many members are in each health state.
func (l *List) CountByHealth() map[rumor.Health]int {
	counts := make(map[rumor.Health]int)
	l.store.WithRumors(rumor.MembershipKey, func(m *rumor.Membership) {
		counts[m.Health]++
	})
	return counts
}

// Probeable reports whether m should be probed: alive and suspect members
// always, dead ones only when permanent. Departed members never.
func Probeable(m *rumor.Membership) bool {
	switch m.Health {
	case rumor.Alive, rumor.Suspect:
		return true
	case rumor.Confirmed:
		return m.Member.Permanent
	default:
		return false
	}
}

// NextProbeTarget walks the membership round-robin in a shuffled order,
// reshuffling after each full pass, and returns the next probeable member
// other than selfID for which skip returns false.
func (l *List) NextProbeTarget(selfID string, skip func(*rumor.Membership) bool) (*rumor.Membership, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reshuffled := false
	for {
		if l.pos >= len(l.order) {
			if reshuffled {
				return nil, false
			}
			l.reshuffle()
			reshuffled = true
			if len(l.order) == 0 {
				return nil, false
			}
		}

		id := l.order[l.pos]
		l.pos++
		if id == selfID {
			continue
		}
		m, ok := l.store.Get(rumor.MembershipKey, id)
		if !ok || !Probeable(m) {
			continue
		}
		if skip != nil && skip(m) {
			continue
		}
		return m, true
	}
}

// reshuffle must be called with l.mu held.
func (l *List) reshuffle() {
	ids := make([]string, 0, l.Len())
	l.store.WithRumors(rumor.MembershipKey, func(m *rumor.Membership) {
		ids = append(ids, m.Member.ID)
	})
	l.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	l.order = ids
	l.pos = 0
}

// PingReqTargets picks up to n alive members, excluding selfID and targetID,
// to relay an indirect probe.
func (l *List) PingReqTargets(selfID, targetID string, n int) []*rumor.Membership {
	var candidates []*rumor.Membership
	l.store.WithRumors(rumor.MembershipKey, func(m *rumor.Membership) {
		if m.Member.ID == selfID || m.Member.ID == targetID || m.Health != rumor.Alive {
			return
		}
		candidates = append(candidates, m.Clone())
	})

	l.mu.Lock()
	l.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	l.mu.Unlock()

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Member.ID < candidates[j].Member.ID })
	return candidates
}

// AliveIDs returns the ids of alive members, sorted.
func (l *List) AliveIDs() []string {
	var ids []string
	l.store.WithRumors(rumor.MembershipKey, func(m *rumor.Membership) {
		if m.Health == rumor.Alive {
			ids = append(ids, m.Member.ID)
		}
	})
	return ids
}
