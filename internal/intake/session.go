package intake

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrStaleImport is returned when an import result arrives for a draft
// lineage that has since been superseded by a restart, a recovery or a
// newer import.
var ErrStaleImport = errors.New("import result superseded by a newer draft lineage")

// Session is one in-progress intake flow. The draft is single-owner and
// ephemeral: it lives here until the flow is submitted or abandoned.
//
// Version tags the draft lineage. Every primary reconciliation and every
// restart bumps it, and asynchronous augmentation results carry the
// version they were requested against; a result whose version no longer
// matches is discarded.
type Session struct {
	ID uuid.UUID

	mu                   sync.Mutex
	state                State
	draft                JobDraft
	version              int
	filledCount          int
	briefingCompleteness *int
	lastError            string

	enrichInFlight     bool
	enrichedForVersion int

	importStartedAt time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// SessionView is an immutable snapshot of a session for responses.
type SessionView struct {
	ID                   uuid.UUID
	State                State
	Version              int
	Draft                JobDraft
	Score                int
	FilledFieldCount     int
	MissingFields        []Field
	BriefingCompleteness *int
	LastError            string
}

// View snapshots the session under its lock.
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionView{
		ID:                   s.ID,
		State:                s.state,
		Version:              s.version,
		Draft:                s.draft,
		Score:                Score(&s.draft),
		FilledFieldCount:     s.filledCount,
		MissingFields:        MissingFields(&s.draft),
		BriefingCompleteness: s.briefingCompleteness,
		LastError:            s.lastError,
	}
}

// BeginImport moves the session into importing. Only the source
// selection state accepts a new primary import. It returns the draft
// version the import was requested against; the import result must
// carry it back so a superseded result can be discarded.
func (s *Session) BeginImport() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !CanTransition(s.state, StateImporting) {
		return 0, &ErrInvalidTransition{From: s.state, To: StateImporting}
	}
	s.state = StateImporting
	s.importStartedAt = time.Now()
	s.lastError = ""
	s.touch()
	return s.version, nil
}

// CompleteImport reconciles a parsed profile into the draft, bumps the
// draft version and moves the session into review. version is the value
// BeginImport handed out; a result for a superseded lineage (restart or
// janitor recovery happened in between) is rejected with ErrStaleImport
// and never touches the draft. It returns the new version and a draft
// copy so the caller can kick off enrichment against exactly the draft
// it reconciled.
func (s *Session) CompleteImport(version int, profile PartialProfile) (int, JobDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateImporting {
		return 0, JobDraft{}, &ErrInvalidTransition{From: s.state, To: StateReview}
	}
	if version != s.version {
		return 0, JobDraft{}, ErrStaleImport
	}

	s.draft, s.filledCount = Reconcile(s.draft, profile)
	s.version++
	s.state = StateReview
	s.lastError = ""
	s.touch()
	return s.version, s.draft, nil
}

// FailImport returns the session to source selection with a retryable
// error. No partial state is committed. A failure reported for a
// superseded lineage is ignored so it cannot abort a successor import.
func (s *Session) FailImport(version int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateImporting || version != s.version {
		return
	}
	s.state = StateSelection
	s.lastError = msg
	s.touch()
}

// TryBeginEnrichment claims the single enrichment slot for the given
// draft version. It refuses when a call is already in flight or the
// version has been enriched before.
func (s *Session) TryBeginEnrichment(version int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.enrichInFlight || s.enrichedForVersion >= version || s.version != version {
		return false
	}
	s.enrichInFlight = true
	return true
}

// FinishEnrichment releases the enrichment slot and applies the patch if
// it is still current. A result for a superseded draft version, or one
// arriving after the session left review, is dropped without mutating
// the draft. The return reports whether the patch was applied.
func (s *Session) FinishEnrichment(version int, patch *EnrichmentPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enrichInFlight = false
	if patch == nil {
		return false
	}
	if version != s.version || s.state != StateReview {
		return false
	}

	s.draft = ApplyEnrichment(s.draft, *patch)
	s.filledCount = FilledFieldCount(&s.draft)
	s.enrichedForVersion = version
	s.touch()
	return true
}

// ApplyBriefing merges an intake-briefing extraction additively and
// records the service-reported narrative completeness. The narrative
// completeness is a separate metric from the derived score and the two
// are never unified.
func (s *Session) ApplyBriefing(b ExtractedBriefing, completeness int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReview {
		return &ErrInvalidTransition{From: s.state, To: StateReview}
	}

	s.draft = ApplyBriefing(s.draft, b)
	s.filledCount = FilledFieldCount(&s.draft)
	if completeness < 0 {
		completeness = 0
	}
	if completeness > 100 {
		completeness = 100
	}
	s.briefingCompleteness = &completeness
	s.touch()
	return nil
}

// ApplyAnswers merges quick-question answers through the additive path.
func (s *Session) ApplyAnswers(a QuickAnswers) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReview {
		return &ErrInvalidTransition{From: s.state, To: StateReview}
	}

	s.draft = ApplyAnswers(s.draft, a)
	s.filledCount = FilledFieldCount(&s.draft)
	s.touch()
	return nil
}

// Restart abandons the accumulated draft and returns to source
// selection. The version bump guarantees any outstanding augmentation
// result is discarded on arrival.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSelection && !CanTransition(s.state, StateSelection) {
		return &ErrInvalidTransition{From: s.state, To: StateSelection}
	}

	s.state = StateSelection
	s.draft = NewJobDraft()
	s.version++
	s.filledCount = 0
	s.briefingCompleteness = nil
	s.lastError = ""
	s.touch()
	return nil
}

// PrepareSubmit validates the draft for the given mode and, on success,
// moves the session into submitting and returns the draft snapshot plus
// the completeness score to persist. A validation failure leaves the
// session in review.
func (s *Session) PrepareSubmit(mode SubmitMode, canPublish bool) (JobDraft, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReview {
		return JobDraft{}, 0, &ErrInvalidTransition{From: s.state, To: StateSubmitting}
	}
	if err := Validate(&s.draft, mode, canPublish); err != nil {
		return JobDraft{}, 0, err
	}

	s.state = StateSubmitting
	s.touch()
	return s.draft, Score(&s.draft), nil
}

// FailSubmit returns a submitting session to review with the error, so
// the draft survives a persistence failure and the user can retry
// without re-importing.
func (s *Session) FailSubmit(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSubmitting {
		return
	}
	s.state = StateReview
	s.lastError = msg
	s.touch()
}

// touch is called with the lock held.
func (s *Session) touch() { s.updatedAt = time.Now() }

// Store holds the live intake sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
}

// NewStore creates a session store whose sessions idle-expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
	}
}

// Create registers a fresh session in source selection.
func (st *Store) Create() *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.New(),
		state:     StateSelection,
		draft:     NewJobDraft(),
		version:   1,
		createdAt: now,
		updatedAt: now,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get looks up a live session.
func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete removes a session, normally after a successful submit.
func (st *Store) Delete(id uuid.UUID) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep expires idle sessions and recovers imports stuck past the
// extraction deadline. It returns (expired, recovered) counts.
func (st *Store) Sweep(importTimeout time.Duration) (int, int) {
	now := time.Now()

	st.mu.Lock()
	candidates := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		candidates = append(candidates, s)
	}
	st.mu.Unlock()

	expired, recovered := 0, 0
	for _, s := range candidates {
		s.mu.Lock()
		idle := now.Sub(s.updatedAt)
		stuck := s.state == StateImporting && now.Sub(s.importStartedAt) > importTimeout
		drop := idle > st.ttl && s.state != StateSubmitting
		if stuck && !drop {
			s.state = StateSelection
			// The stuck task may still be running; the bump makes
			// its eventual result stale.
			s.version++
			s.lastError = "import timed out, please try again"
			s.touch()
			recovered++
		}
		s.mu.Unlock()

		if drop {
			st.Delete(s.ID)
			expired++
		}
	}
	return expired, recovered
}
