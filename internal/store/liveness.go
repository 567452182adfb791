package store

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/school-attendance/internal/model"
)

// LivenessStore keeps the per-student registration flags, keyed by
// roll number.  Re-registration overwrites; deletion happens through
// the cascade coordinator when the student is removed.
type LivenessStore struct {
	mu      sync.RWMutex
	entries map[string]model.LivenessRegistration
	persist Persister
}

// NewLivenessStore restores the face_data collection from the persister.
func NewLivenessStore(ctx context.Context, p Persister) (*LivenessStore, error) {
	s := &LivenessStore{entries: make(map[string]model.LivenessRegistration), persist: p}
	if _, err := p.Load(ctx, CollectionFaceData, &s.entries); err != nil {
		return nil, err
	}
	return s, nil
}

// Register records that a single face was present for the roll number.
func (s *LivenessStore) Register(ctx context.Context, roll string) (model.LivenessRegistration, error) {
	reg := model.LivenessRegistration{
		RegisteredAt: time.Now().UTC(),
		FaceDetected: true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveLocked(ctx, roll, &reg); err != nil {
		return model.LivenessRegistration{}, err
	}
	s.entries[roll] = reg
	return reg, nil
}

// IsRegistered reports whether the roll number has a registration.
func (s *LivenessStore) IsRegistered(roll string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[roll]
	return ok
}

// Get returns the registration for a roll number.
func (s *LivenessStore) Get(roll string) (model.LivenessRegistration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.entries[roll]
	return reg, ok
}

// Remove drops the registration if present.  Removing an absent entry
// is a no-op so the cascade can call it unconditionally.
func (s *LivenessStore) Remove(ctx context.Context, roll string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[roll]; !ok {
		return nil
	}
	if err := s.saveLocked(ctx, roll, nil); err != nil {
		return err
	}
	delete(s.entries, roll)
	return nil
}

// saveLocked persists the collection with the pending change applied:
// upsert when reg is non-nil, removal otherwise.
func (s *LivenessStore) saveLocked(ctx context.Context, roll string, reg *model.LivenessRegistration) error {
	clone := make(map[string]model.LivenessRegistration, len(s.entries)+1)
	for k, v := range s.entries {
		clone[k] = v
	}
	if reg != nil {
		clone[roll] = *reg
	} else {
		delete(clone, roll)
	}
	return s.persist.Save(ctx, CollectionFaceData, clone)
}
