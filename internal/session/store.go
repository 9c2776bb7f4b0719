// Package session holds per-session exercise state and the store it lives in.
// State is keyed strictly by sessionID_exerciseType, so the same raw session
// id switching between exercises gets fully independent counters.
package session

import (
	"sort"
	"sync"
)

// MovementSample is one frame's worth of knee travel for the lunge
// movement-verification window.
type MovementSample struct {
	Left  float64
	Right float64
	Time  int64
}

// AngleSample is one frame's worth of leg angles for the lunge
// angle-change window. Nil means the leg was not visible that frame.
type AngleSample struct {
	Left  *float64
	Right *float64
	Time  int64
}

// HistoryLen bounds the rolling movement/angle windows kept per session.
const HistoryLen = 5

// State is the mutable record for one (session, exercise) pair. RepCounter
// only ever increases. Timestamps are milliseconds since the Unix epoch.
// The auxiliary fields past LastActive are touched only by the classifiers
// that need them and keep their zero values otherwise.
type State struct {
	RepCounter  uint   `json:"repCounter"`
	Stage       string `json:"stage"`
	LastRepTime int64  `json:"lastRepTime"`
	HoldStart   int64  `json:"holdStart"`
	LastActive  int64  `json:"lastActive"`

	// Per-arm tracking (bicep curl, tricep extension, pull-up).
	LeftArmStage      string `json:"leftArmStage,omitempty"`
	RightArmStage     string `json:"rightArmStage,omitempty"`
	LeftArmHoldStart  int64  `json:"-"`
	RightArmHoldStart int64  `json:"-"`

	// Previous-frame positions (shoulder press wrist velocity, lunge knees).
	PrevLeftWristY  *float64 `json:"-"`
	PrevRightWristY *float64 `json:"-"`
	PrevLeftKneeY   *float64 `json:"-"`
	PrevRightKneeY  *float64 `json:"-"`

	// Rolling windows for lunge movement verification.
	MovementHistory []MovementSample `json:"-"`
	AngleHistory    []AngleSample    `json:"-"`

	// Handstand hold bookkeeping: counted marks the current hold as already
	// credited so a sustained hold scores once.
	HoldCounted bool `json:"-"`

	// Calf raise standing reference: heel y captured while flat-footed.
	LeftHeelRef  *float64 `json:"-"`
	RightHeelRef *float64 `json:"-"`
}

// NewState returns the defaults every session starts from.
func NewState(now int64) *State {
	return &State{
		Stage:         "down",
		LeftArmStage:  "down",
		RightArmStage: "down",
		LastActive:    now,
	}
}

// PushMovement appends a movement sample, keeping the window at HistoryLen.
func (s *State) PushMovement(m MovementSample) {
	s.MovementHistory = append(s.MovementHistory, m)
	if len(s.MovementHistory) > HistoryLen {
		s.MovementHistory = s.MovementHistory[1:]
	}
}

// PushAngle appends an angle sample, keeping the window at HistoryLen.
func (s *State) PushAngle(a AngleSample) {
	s.AngleHistory = append(s.AngleHistory, a)
	if len(s.AngleHistory) > HistoryLen {
		s.AngleHistory = s.AngleHistory[1:]
	}
}

// Store is the injected session-state abstraction. The engine constructs one
// at process start and passes it down; nothing else holds session state, so a
// different backing implementation can be swapped in without touching
// classifier logic.
type Store interface {
	// GetOrCreate returns the state for key, creating defaults stamped with
	// now on first access. created reports whether this call made the entry.
	GetOrCreate(key string, now int64) (st *State, created bool)
	// Get returns the state for key if present.
	Get(key string) (*State, bool)
	// Put installs st under key, replacing any existing entry.
	Put(key string, st *State)
	// Delete removes key. Removing an absent key is a no-op.
	Delete(key string)
	// Sweep deletes entries whose LastActive is older than olderThanMS
	// relative to now and returns how many were removed.
	Sweep(now, olderThanMS int64) int
	// Len returns the number of live entries.
	Len() int
	// Keys returns the live keys in sorted order, for diagnostics.
	Keys() []string
}

// MemoryStore is the in-process Store. Entries are never persisted and live
// until deleted, swept, or the process exits.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*State
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*State)}
}

func (m *MemoryStore) GetOrCreate(key string, now int64) (*State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.sessions[key]; ok {
		return st, false
	}
	st := NewState(now)
	m.sessions[key] = st
	return st, true
}

func (m *MemoryStore) Get(key string) (*State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.sessions[key]
	return st, ok
}

func (m *MemoryStore) Put(key string, st *State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = st
}

func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

func (m *MemoryStore) Sweep(now, olderThanMS int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key, st := range m.sessions {
		if now-st.LastActive > olderThanMS {
			delete(m.sessions, key)
			removed++
		}
	}
	return removed
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.sessions))
	for key := range m.sessions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Compile-time check: MemoryStore satisfies Store.
var _ Store = (*MemoryStore)(nil)
