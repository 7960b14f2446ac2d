// Package historyindex provides domain logic for normalizing and indexing
// completed workout history by exercise. This package contains pure
// business logic with no database dependencies, making it testable in
// isolation.
package historyindex

import (
	"errors"
	"sort"
	"time"

	"github.com/trainprog/engine/internal/domain/muscle"
)

// Status is a workout history entry status from a closed vocabulary.
type Status string

const (
	StatusCompleted       Status = "COMPLETED"
	StatusInProgress      Status = "IN_PROGRESS"
	StatusPartial         Status = "PARTIAL" // performed, ended early
	StatusSkipped         Status = "SKIPPED"
	StatusPlanned         Status = "PLANNED"
	StatusAbandoned       Status = "ABANDONED"
)

// performedStatuses is the closed set of statuses considered "performed"
// per spec §4.2 step 1.
var performedStatuses = map[Status]bool{
	StatusCompleted:  true,
	StatusInProgress: true,
	StatusPartial:    true,
}

// IsPerformed reports whether a status counts as a performed session.
func IsPerformed(s Status) bool {
	return performedStatuses[s]
}

// SelectionMode records how a historical session's exercises were chosen.
type SelectionMode string

const (
	SelectionIntent   SelectionMode = "INTENT"
	SelectionManual   SelectionMode = "MANUAL"
	SelectionTemplate SelectionMode = "TEMPLATE"
)

// SetEntry is one logged working set.
type SetEntry struct {
	SetIndex   int
	Reps       int
	Load       *float64
	RPE        *float64
	WasSkipped bool
}

// ExerciseLog is one exercise's logged sets within a session.
type ExerciseLog struct {
	ExerciseID      string
	MovementPattern string
	PrimaryMuscles  []muscle.Name
	Sets            []SetEntry
}

// PhaseSnapshot is an optional, denormalized record of the periodization
// phase a history entry was logged under. Kept local (rather than
// importing the periodization package) to avoid a dependency cycle:
// periodization has no need to know about history, but history entries
// may carry a frozen-in-time snapshot of what block they fell under.
type PhaseSnapshot struct {
	BlockType   string
	WeekInMeso  int
	WeekInBlock int
}

// Entry is a read-only WorkoutHistoryEntry (spec §3).
type Entry struct {
	Date          time.Time
	Status        Status
	SessionIntent string
	Exercises     []ExerciseLog
	Phase         *PhaseSnapshot
	Week          *int
	SelectionMode SelectionMode
	// IsManualEntry marks sessions logged outside of any planned
	// selection mode (spec §4.2: "manual entry has special handling").
	IsManualEntry bool
	// Confidence in [0,1] weights this session in weighted-modal
	// computations. Manual entries may carry a caller-supplied
	// confidence; INTENT/TEMPLATE sessions default to 1.0.
	Confidence float64
}

// Errors for history index operations.
var (
	ErrNegativeReps    = errors.New("reps must be >= 0")
	ErrNonFiniteLoad   = errors.New("load must be finite and non-negative")
)

// Session is one exercise's derived per-session summary, in the ordering
// produced by Index (most recent first).
type Session struct {
	Date       time.Time
	Sets       []SetEntry
	Confidence float64
	IsManual   bool
	// ModalLoad/ModalRPE are the most-frequent working load/RPE in this
	// session, excluding sets with RPE < 6, per spec §4.2.
	ModalLoad *float64
	ModalRPE  *float64
	// ModalReps is the rep count associated with the winning modal load
	// (used by the double-progression decision).
	ModalReps int
}

// Index is the per-exercise, ordered-by-recency view of workout history.
type Index struct {
	byExercise map[string][]Session
}

// Filter controls which history entries are considered when building an
// Index, per spec §4.2 steps 2-4.
type Filter struct {
	// SessionIntent, if non-empty, restricts to entries with a matching
	// SessionIntent (step 3).
	SessionIntent string
	// SeedingNewMeso, if true, restricts to accumulation-phase entries
	// and anchors on the highest completed accumulation week, excluding
	// deload entries entirely (step 4).
	SeedingNewMeso bool
}

// Build normalizes and indexes a sequence of history entries per spec
// §4.2. Entries failing validation (negative reps, non-finite load) are
// rejected with an error (InvalidInput, per §7) rather than silently
// dropped.
func Build(entries []Entry, filter Filter) (*Index, error) {
	for _, e := range entries {
		for _, ex := range e.Exercises {
			for _, s := range ex.Sets {
				if s.Reps < 0 {
					return nil, ErrNegativeReps
				}
				if s.Load != nil && (isNaNOrInf(*s.Load) || *s.Load < 0) {
					return nil, ErrNonFiniteLoad
				}
			}
		}
	}

	// Step 1: filter to performed status.
	performed := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if IsPerformed(e.Status) {
			performed = append(performed, e)
		}
	}

	// Step 2: sort descending by date.
	sort.SliceStable(performed, func(i, j int) bool {
		return performed[i].Date.After(performed[j].Date)
	})

	// Step 3: optional intent filter.
	if filter.SessionIntent != "" {
		filtered := make([]Entry, 0, len(performed))
		for _, e := range performed {
			if e.SessionIntent == filter.SessionIntent {
				filtered = append(filtered, e)
			}
		}
		performed = filtered
	}

	// Step 4: seeding-a-new-mesocycle restriction.
	if filter.SeedingNewMeso {
		performed = restrictToAccumulationAnchor(performed)
	}

	// Step 5: group by exerciseId, deriving per-session summaries.
	byExercise := make(map[string][]Session)
	for _, e := range performed {
		confidence := sessionConfidence(e, performed)
		for _, ex := range e.Exercises {
			sess := Session{
				Date:       e.Date,
				Sets:       ex.Sets,
				Confidence: confidence,
				IsManual:   e.IsManualEntry,
			}
			sess.ModalLoad, sess.ModalRPE, sess.ModalReps = modalLoadAndRPE(ex.Sets)
			byExercise[ex.ExerciseID] = append(byExercise[ex.ExerciseID], sess)
		}
	}

	return &Index{byExercise: byExercise}, nil
}

func isNaNOrInf(f float64) bool {
	return f != f || f > 1e18 || f < -1e18
}

// restrictToAccumulationAnchor keeps only entries from the highest
// completed accumulation week (the baseline anchor), excluding deload
// entries entirely, per spec §4.2 step 4.
func restrictToAccumulationAnchor(entries []Entry) []Entry {
	bestWeek := -1
	for _, e := range entries {
		if e.Phase == nil {
			continue
		}
		if e.Phase.BlockType == "deload" {
			continue
		}
		if e.Phase.BlockType != "accumulation" {
			continue
		}
		if e.Phase.WeekInBlock > bestWeek {
			bestWeek = e.Phase.WeekInBlock
		}
	}
	if bestWeek < 0 {
		return nil
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Phase == nil || e.Phase.BlockType != "accumulation" {
			continue
		}
		if e.Phase.WeekInBlock == bestWeek {
			out = append(out, e)
		}
	}
	return out
}

// sessionConfidence resolves the confidence weight for a history entry
// per spec §4.2: manual entries are fully confident (1.0) when no INTENT
// entries exist in the filtered set; otherwise their raw confidence is
// used. Non-manual entries always use their recorded confidence
// (defaulting to 1.0 when unset/zero).
func sessionConfidence(e Entry, all []Entry) float64 {
	if e.IsManualEntry {
		hasIntentEntries := false
		for _, o := range all {
			if o.SelectionMode == SelectionIntent {
				hasIntentEntries = true
				break
			}
		}
		if !hasIntentEntries {
			return 1.0
		}
		if e.Confidence <= 0 {
			return 0
		}
		return e.Confidence
	}
	if e.Confidence <= 0 {
		return 1.0
	}
	return e.Confidence
}

// modalLoadAndRPE computes the most-frequent working-set load and RPE in
// a session, excluding sets with RPE < 6 (spec §4.2). Ties are broken by
// latest setIndex then higher load/RPE. Returns the modal load's
// associated rep count as well.
func modalLoadAndRPE(sets []SetEntry) (*float64, *float64, int) {
	type loadCount struct {
		load       float64
		count      int
		lastIndex  int
		reps       int
	}
	counts := make(map[float64]*loadCount)
	var order []float64

	for _, s := range sets {
		if s.WasSkipped || s.Load == nil || s.RPE == nil {
			continue
		}
		if *s.RPE < 6 {
			continue
		}
		lc, ok := counts[*s.Load]
		if !ok {
			lc = &loadCount{load: *s.Load}
			counts[*s.Load] = lc
			order = append(order, *s.Load)
		}
		lc.count++
		if s.SetIndex >= lc.lastIndex {
			lc.lastIndex = s.SetIndex
			lc.reps = s.Reps
		}
	}

	if len(counts) == 0 {
		return nil, nil, 0
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := counts[order[i]], counts[order[j]]
		if a.count != b.count {
			return a.count > b.count
		}
		if a.lastIndex != b.lastIndex {
			return a.lastIndex > b.lastIndex
		}
		return a.load > b.load
	})

	winner := counts[order[0]]
	load := winner.load

	// Modal RPE computed analogously over the same rpe>=6 population.
	rpeCounts := make(map[float64]*loadCount)
	var rpeOrder []float64
	for _, s := range sets {
		if s.WasSkipped || s.RPE == nil || *s.RPE < 6 {
			continue
		}
		rc, ok := rpeCounts[*s.RPE]
		if !ok {
			rc = &loadCount{load: *s.RPE}
			rpeCounts[*s.RPE] = rc
			rpeOrder = append(rpeOrder, *s.RPE)
		}
		rc.count++
		if s.SetIndex >= rc.lastIndex {
			rc.lastIndex = s.SetIndex
		}
	}
	var modalRPE *float64
	if len(rpeOrder) > 0 {
		sort.Slice(rpeOrder, func(i, j int) bool {
			a, b := rpeCounts[rpeOrder[i]], rpeCounts[rpeOrder[j]]
			if a.count != b.count {
				return a.count > b.count
			}
			if a.lastIndex != b.lastIndex {
				return a.lastIndex > b.lastIndex
			}
			return a.load > b.load
		})
		v := rpeOrder[0]
		modalRPE = &v
	}

	return &load, modalRPE, winner.reps
}

// Sessions returns the ordered (most-recent-first) session list for an
// exercise. Returns nil if the exercise has no history.
func (idx *Index) Sessions(exerciseID string) []Session {
	return idx.byExercise[exerciseID]
}

// HasHistory reports whether any session exists for the exercise.
func (idx *Index) HasHistory(exerciseID string) bool {
	return len(idx.byExercise[exerciseID]) > 0
}

// NormalizeAccessorySets rewrites every set in a session to the session's
// modal load, per spec §4.2: "For accessory exercises (non main-lift-
// eligible), all sets in a session are normalized to the session's modal
// load before progression." Returns a copy; the original Session is
// unmodified.
func NormalizeAccessorySets(s Session) Session {
	if s.ModalLoad == nil {
		return s
	}
	normalized := make([]SetEntry, len(s.Sets))
	for i, set := range s.Sets {
		set.Load = s.ModalLoad
		normalized[i] = set
	}
	s.Sets = normalized
	return s
}

// WeightedModalLoad computes the weighted historical modal load across a
// set of sessions, per spec §4.2: sessions are weighted by their
// confidence in [0,1]; the weighted-frequency winner wins; ties prefer
// more recent and then higher load.
func WeightedModalLoad(sessions []Session) (*float64, bool) {
	type agg struct {
		weight    float64
		mostRecent time.Time
		load      float64
	}
	byLoad := make(map[float64]*agg)
	var order []float64
	for _, s := range sessions {
		if s.ModalLoad == nil {
			continue
		}
		a, ok := byLoad[*s.ModalLoad]
		if !ok {
			a = &agg{load: *s.ModalLoad}
			byLoad[*s.ModalLoad] = a
			order = append(order, *s.ModalLoad)
		}
		a.weight += s.Confidence
		if s.Date.After(a.mostRecent) {
			a.mostRecent = s.Date
		}
	}
	if len(order) == 0 {
		return nil, false
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := byLoad[order[i]], byLoad[order[j]]
		if a.weight != b.weight {
			return a.weight > b.weight
		}
		if !a.mostRecent.Equal(b.mostRecent) {
			return a.mostRecent.After(b.mostRecent)
		}
		return a.load > b.load
	})
	winner := order[0]
	return &winner, true
}
