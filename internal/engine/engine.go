// Package engine dispatches pose frames to the per-exercise classifiers and
// owns the session lifecycle around them.
package engine

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/exercise"
	"github.com/rapidroutines/render-repbot/internal/metrics"
	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// ErrUnknownExercise is returned when no classifier is registered for the
// requested exercise type. The transport decides whether to surface it as a
// client error or fall back to an echo response.
var ErrUnknownExercise = errors.New("unknown exercise type")

// Request is one frame to classify, transport-independent.
type Request struct {
	Landmarks    pose.Frame `json:"landmarks"`
	ExerciseType string     `json:"exerciseType"`
	SessionID    string     `json:"sessionId"`
	// Timestamp is the client-reported capture time in ms. It is auxiliary
	// only; detection timing always runs on server time.
	Timestamp int64 `json:"timestamp,omitempty"`
}

// lockShards bounds the per-key serialization structures regardless of how
// many sessions exist.
const lockShards = 64

// Engine routes requests to classifiers and serializes state mutations per
// session key so the monotonic-counter and stage invariants hold when the
// transport serves frames concurrently.
type Engine struct {
	store       session.Store
	classifiers map[string]exercise.Classifier
	timing      exercise.Timing
	thresholds  config.Thresholds
	met         *metrics.Manager
	log         *slog.Logger

	locks [lockShards]sync.Mutex

	// now is swappable so tests can drive simulated time.
	now func() int64
}

// New builds an Engine with every registered classifier.
func New(store session.Store, cfg *config.Config, met *metrics.Manager, log *slog.Logger) *Engine {
	timing := exercise.Timing{
		RepCooldownMS:   cfg.Detection.RepCooldownMS,
		HoldThresholdMS: cfg.Detection.HoldThresholdMS,
	}
	classifiers := make(map[string]exercise.Classifier)
	for _, c := range exercise.All(cfg.Thresholds, timing) {
		classifiers[c.Name()] = c
	}
	return &Engine{
		store:       store,
		classifiers: classifiers,
		timing:      timing,
		thresholds:  cfg.Thresholds,
		met:         met,
		log:         log,
		now:         func() int64 { return time.Now().UnixMilli() },
	}
}

// SetClock overrides the engine's time source. Tests use it to simulate hold
// and cooldown windows without sleeping.
func (e *Engine) SetClock(now func() int64) { e.now = now }

// SessionKey is the strict composite key: the same raw session id doing two
// exercises gets two independent states.
func SessionKey(sessionID, exerciseType string) string {
	return sessionID + "_" + exerciseType
}

func (e *Engine) lockFor(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &e.locks[h.Sum32()%lockShards]
}

// Process classifies one frame. Classifier faults never escape: they are
// logged and converted into the unchanged-counters diagnostic contract. Only
// an unknown exercise type yields an error.
func (e *Engine) Process(req *Request) (*exercise.Result, error) {
	cls, ok := e.classifiers[req.ExerciseType]
	if !ok {
		e.met.UnknownExercises.Inc()
		return nil, fmt.Errorf("%w: %q", ErrUnknownExercise, req.ExerciseType)
	}

	now := e.now()
	if req.Timestamp != 0 {
		if drift := now - req.Timestamp; drift > 5000 || drift < -5000 {
			e.log.Debug("client timestamp drift", "exercise", req.ExerciseType, "drift_ms", drift)
		}
	}

	key := SessionKey(req.SessionID, req.ExerciseType)
	mu := e.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	st, created := e.store.GetOrCreate(key, now)
	if created {
		e.log.Info("session created", "key", key)
	}
	before := st.RepCounter

	res, err := cls.Classify(req.Landmarks, st, now)
	if err != nil {
		e.met.ClassifierFaults.WithLabelValues(req.ExerciseType).Inc()
		e.log.Error("classifier fault", "exercise", req.ExerciseType, "key", key, "error", err)
		res = &exercise.Result{
			RepCounter: before,
			Stage:      st.Stage,
			Feedback:   "Could not process frame - counters unchanged",
		}
	}

	st.LastActive = now

	e.met.FramesProcessed.WithLabelValues(req.ExerciseType).Inc()
	if res.Degraded {
		e.met.DegradedResponses.WithLabelValues(req.ExerciseType).Inc()
	}
	if st.RepCounter > before {
		e.met.RepsCounted.WithLabelValues(req.ExerciseType).Add(float64(st.RepCounter - before))
	}
	e.met.ActiveSessions.Set(float64(e.store.Len()))

	return res, nil
}

// ResetSession discards any state for (sessionID, exerciseType) and installs
// defaults. A blank sessionID gets a generated one; the caller relays it back
// to the client for subsequent frames.
func (e *Engine) ResetSession(sessionID, exerciseType string) (string, *session.State, error) {
	if _, ok := e.classifiers[exerciseType]; !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownExercise, exerciseType)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	now := e.now()
	key := SessionKey(sessionID, exerciseType)
	mu := e.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	st := session.NewState(now)
	e.store.Put(key, st)
	e.met.ActiveSessions.Set(float64(e.store.Len()))
	e.log.Info("session reset", "key", key)
	return sessionID, st, nil
}

// CleanupSessions removes sessions idle for longer than olderThanMS and
// returns how many were deleted.
func (e *Engine) CleanupSessions(olderThanMS int64) int {
	removed := e.store.Sweep(e.now(), olderThanMS)
	e.met.ActiveSessions.Set(float64(e.store.Len()))
	if removed > 0 {
		e.log.Info("session sweep", "removed", removed, "older_than_ms", olderThanMS)
	}
	return removed
}

// Exercises returns the registered exercise type names, sorted.
func (e *Engine) Exercises() []string {
	names := make([]string, 0, len(e.classifiers))
	for name := range e.classifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Thresholds exposes the active detection bands for diagnostic surfaces.
func (e *Engine) Thresholds() config.Thresholds { return e.thresholds }

// Timing exposes the active cooldown/hold gates.
func (e *Engine) Timing() exercise.Timing { return e.timing }

// SessionCount returns the number of live sessions.
func (e *Engine) SessionCount() int { return e.store.Len() }

// SessionKeys returns the live session keys, sorted.
func (e *Engine) SessionKeys() []string { return e.store.Keys() }

// Session returns the state stored under (sessionID, exerciseType).
func (e *Engine) Session(sessionID, exerciseType string) (*session.State, bool) {
	return e.store.Get(SessionKey(sessionID, exerciseType))
}
