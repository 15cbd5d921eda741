package services

import "sync"

// assessmentLocks serializes state-mutating work per assessment: the start
// transaction, the submit-then-aggregate step, and the telemetry
// count-and-flag step. A single node owns all assessments, so an in-process
// keyed mutex is the whole coordination story.
//
// Entries are never evicted; the map is bounded by the number of assessments
// touched since process start, which is small relative to the rows they
// represent.
type assessmentLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAssessmentLocks builds an empty keyed-mutex registry. Every service in
// one process must share the same instance.
func NewAssessmentLocks() *assessmentLocks {
	return &assessmentLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for one assessment and returns its unlock func.
func (l *assessmentLocks) Lock(assessmentID string) func() {
	l.mu.Lock()
	m, ok := l.locks[assessmentID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[assessmentID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
