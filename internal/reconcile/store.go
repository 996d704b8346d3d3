// Package reconcile runs the fetch, tenant filter, verification and
// classification pipeline and keeps the latest result per viewer as an
// immutable snapshot.
package reconcile

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/clinic-console/internal/matching"
	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/sources"
	"github.com/wolfman30/clinic-console/internal/tenancy"
	"github.com/wolfman30/clinic-console/internal/verification"
)

// Snapshot is one viewer's reconciled inputs. It is never modified after it
// is stored; refreshes replace it.
type Snapshot struct {
	ID           uuid.UUID
	Version      uint64
	Viewer       tenancy.Viewer
	DoctorFilter []string
	FetchedAt    time.Time

	Appointments []records.Appointment
	Patients     []records.Patient
	Doctors      []sources.Doctor
	Index        *matching.Index

	Verified             verification.Set
	VerificationDegraded bool
}

// SnapshotKey identifies a snapshot slot: the viewer's scope plus the
// normalized doctor filter.
func SnapshotKey(v tenancy.Viewer, filter []string) string {
	return v.Key() + "#" + strings.Join(normalizeFilter(filter), ",")
}

// Store holds the latest snapshot per viewer and filter.
type Store struct {
	mu        sync.RWMutex
	version   uint64
	snapshots map[string]*Snapshot
}

func NewStore() *Store {
	return &Store{snapshots: make(map[string]*Snapshot)}
}

// Get returns the snapshot for key, or nil.
func (s *Store) Get(key string) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[key]
}

// Put stamps snap with a fresh id and the next store version and publishes
// it under key.
func (s *Store) Put(key string, snap *Snapshot) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	snap.ID = uuid.New()
	snap.Version = s.version
	s.snapshots[key] = snap
	return snap
}

// Len returns the number of stored snapshots.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
