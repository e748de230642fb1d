// Package settings holds process-wide runtime configuration with an explicit
// lifecycle: Init once at startup, Get/Set afterwards, Subscribe for change
// notifications. It replaces ad hoc file-scope mutable state.
package settings

import "sync"

// Snapshot is an immutable view of the runtime settings.
type Snapshot struct {
	// IntakePaused rejects new offerings and approvals while set, e.g.
	// during a data migration.
	IntakePaused bool `json:"intakePaused"`
	// DefaultPageLimit applies when a listing request carries no limit.
	DefaultPageLimit int `json:"defaultPageLimit"`
	// MaxPageLimit caps the limit a listing request may ask for.
	MaxPageLimit int `json:"maxPageLimit"`
}

var holder struct {
	mu     sync.RWMutex
	snap   Snapshot
	inited bool
	subs   map[int]chan Snapshot
	nextID int
}

// Defaults returns the snapshot used when Init is never called.
func Defaults() Snapshot {
	return Snapshot{DefaultPageLimit: 5, MaxPageLimit: 50}
}

// Init seeds the holder. Calling it again overwrites the state; tests rely on
// that to start from a known snapshot.
func Init(s Snapshot) {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	holder.snap = s
	holder.inited = true
	holder.subs = make(map[int]chan Snapshot)
}

// Get returns the current snapshot, falling back to Defaults before Init.
func Get() Snapshot {
	holder.mu.RLock()
	defer holder.mu.RUnlock()
	if !holder.inited {
		return Defaults()
	}
	return holder.snap
}

// Set applies a mutation to the current snapshot and notifies subscribers.
// Slow subscribers miss intermediate snapshots instead of blocking the writer.
func Set(mutate func(*Snapshot)) Snapshot {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	if !holder.inited {
		holder.snap = Defaults()
		holder.inited = true
		holder.subs = make(map[int]chan Snapshot)
	}
	mutate(&holder.snap)
	for _, ch := range holder.subs {
		select {
		case ch <- holder.snap:
		default:
		}
	}
	return holder.snap
}

// Subscribe registers for change notifications. The returned cancel func must
// be called to release the channel.
func Subscribe() (<-chan Snapshot, func()) {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	if holder.subs == nil {
		holder.subs = make(map[int]chan Snapshot)
	}
	id := holder.nextID
	holder.nextID++
	ch := make(chan Snapshot, 1)
	holder.subs[id] = ch
	return ch, func() {
		holder.mu.Lock()
		defer holder.mu.Unlock()
		if _, ok := holder.subs[id]; ok {
			delete(holder.subs, id)
			close(ch)
		}
	}
}
