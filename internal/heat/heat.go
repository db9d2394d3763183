package heat

import (
	"sort"
	"sync"

	"rumormill/internal/rumor"
)

// DefaultLimit is how many times a rumor is sent to each member before it is
// considered delivered.
const DefaultLimit = 2

// Heat is the per (rumor, member) delivery table.
type Heat struct {
	mu     sync.RWMutex
	limit  int
	rumors map[rumor.Key]map[string]int // rumor -> member -> times sent
}

// New creates a heat table. A limit <= 0 uses DefaultLimit.
func New(limit int) *Heat {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Heat{
		limit:  limit,
		rumors: make(map[rumor.Key]map[string]int),
	}
}

// StartHotRumor makes key hot for every member, including members that have
// already been sent an older version of it.
func (h *Heat) StartHotRumor(key rumor.Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rumors[key] = make(map[string]int)
}

// Forget stops tracking key.
func (h *Heat) Forget(key rumor.Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rumors, key)
}

// CurrentlyHotRumors returns the keys still hot for memberID, hottest first.
// With no kinds every kind qualifies.
func (h *Heat) CurrentlyHotRumors(memberID string, kinds ...rumor.Kind) []rumor.Key {
	h.mu.RLock()
	defer h.mu.RUnlock()

	type hot struct {
		key  rumor.Key
		sent int
	}
	var out []hot
	for key, sent := range h.rumors {
		if len(kinds) > 0 && !containsKind(kinds, key.Kind) {
			continue
		}
		if n := sent[memberID]; n < h.limit {
			out = append(out, hot{key: key, sent: n})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].sent != out[j].sent {
			return out[i].sent < out[j].sent
		}
		if out[i].key.Kind != out[j].key.Kind {
			return out[i].key.Kind < out[j].key.Kind
		}
		if out[i].key.Key != out[j].key.Key {
			return out[i].key.Key < out[j].key.Key
		}
		return out[i].key.ID < out[j].key.ID
	})

	keys := make([]rumor.Key, len(out))
	for i, o := range out {
		keys[i] = o.key
	}
	return keys
}

// CoolRumors records that keys were delivered to memberID.
func (h *Heat) CoolRumors(memberID string, keys []rumor.Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, key := range keys {
		sent, ok := h.rumors[key]
		if !ok {
			continue
		}
		if sent[memberID] < h.limit {
			sent[memberID]++
		}
	}
}

// Len returns the number of tracked rumors.
func (h *Heat) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rumors)
}

func containsKind(kinds []rumor.Kind, k rumor.Kind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}
