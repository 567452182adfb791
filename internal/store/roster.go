package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/school-attendance/internal/model"
)

// Roster owns student identity: internal id assignment, roll-number
// uniqueness and case-insensitive name uniqueness all live here.  The
// map is guarded by a single RWMutex; readers run concurrently,
// writers exclude everything.  Roll allocation happens inside the
// create critical section so two racing creates can never be handed
// the same gap, and a racing delete cannot free a gap mid-allocation.
type Roster struct {
	mu       sync.RWMutex
	students map[int]model.Student
	persist  Persister
}

// UpdateParams carries the mutable student fields.  Nil means "leave
// unchanged".  ID and roll number are immutable and have no place
// here; the boundary rejects payloads that carry them.
type UpdateParams struct {
	Name  *string
	DOB   *string
	Class *string
}

// NewRoster restores the students collection from the persister.
func NewRoster(ctx context.Context, p Persister) (*Roster, error) {
	r := &Roster{students: make(map[int]model.Student), persist: p}
	var list []model.Student
	if _, err := p.Load(ctx, CollectionStudents, &list); err != nil {
		return nil, err
	}
	for _, s := range list {
		r.students[s.ID] = s
	}
	return r, nil
}

// Create adds a student.  The internal id is max existing id + 1 and
// is never reused; the roll number reuses the lowest free suffix.
// Fails with ErrDuplicateName on a case-insensitive name collision and
// ErrInvalidInput on a missing field or malformed date of birth.
func (r *Roster) Create(ctx context.Context, name, dob, class string, actor model.Actor) (model.Student, error) {
	name = strings.TrimSpace(name)
	if name == "" || dob == "" || class == "" {
		return model.Student{}, fmt.Errorf("%w: name, dob and class are required", ErrInvalidInput)
	}
	if _, err := time.Parse(model.DOBLayout, dob); err != nil {
		return model.Student{}, fmt.Errorf("%w: dob must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lower := strings.ToLower(name)
	maxID := 0
	rolls := make([]string, 0, len(r.students))
	for _, s := range r.students {
		if strings.ToLower(s.Name) == lower {
			return model.Student{}, fmt.Errorf("%w: %q", ErrDuplicateName, s.Name)
		}
		if s.ID > maxID {
			maxID = s.ID
		}
		rolls = append(rolls, s.RollNumber)
	}

	suffix, err := NextRollSuffix(rolls)
	if err != nil {
		return model.Student{}, err
	}

	student := model.Student{
		ID:            maxID + 1,
		Name:          name,
		DOB:           dob,
		Class:         class,
		RollNumber:    FormatRoll(suffix),
		CreatedAt:     time.Now().UTC(),
		CreatedBy:     actor.Name,
		CreatedByRole: actor.Role,
	}

	if err := r.saveWithLocked(ctx, student, 0); err != nil {
		return model.Student{}, err
	}
	r.students[student.ID] = student
	return student, nil
}

// Update mutates name/dob/class in place.  A name change that collides
// with another student fails with ErrDuplicateName.
func (r *Roster) Update(ctx context.Context, id int, params UpdateParams, actor model.Actor) (model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	student, ok := r.students[id]
	if !ok {
		return model.Student{}, fmt.Errorf("%w: student %d", ErrNotFound, id)
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return model.Student{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		lower := strings.ToLower(name)
		for _, other := range r.students {
			if other.ID != id && strings.ToLower(other.Name) == lower {
				return model.Student{}, fmt.Errorf("%w: %q", ErrDuplicateName, other.Name)
			}
		}
		student.Name = name
	}
	if params.DOB != nil {
		if _, err := time.Parse(model.DOBLayout, *params.DOB); err != nil {
			return model.Student{}, fmt.Errorf("%w: dob must be in YYYY-MM-DD format", ErrInvalidInput)
		}
		student.DOB = *params.DOB
	}
	if params.Class != nil {
		student.Class = *params.Class
	}

	student.UpdatedAt = time.Now().UTC()
	student.UpdatedBy = actor.Name
	student.UpdatedByRole = actor.Role

	if err := r.saveWithLocked(ctx, student, 0); err != nil {
		return model.Student{}, err
	}
	r.students[id] = student
	return student, nil
}

// Get returns the student with the given internal id.
func (r *Roster) Get(id int) (model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.students[id]
	if !ok {
		return model.Student{}, fmt.Errorf("%w: student %d", ErrNotFound, id)
	}
	return s, nil
}

// GetByRoll returns the student with the given roll number.
func (r *Roster) GetByRoll(roll string) (model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.students {
		if s.RollNumber == roll {
			return s, nil
		}
	}
	return model.Student{}, fmt.Errorf("%w: roll number %s", ErrNotFound, roll)
}

// List returns all students ordered by internal id.
func (r *Roster) List() []model.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(0)
}

// ListByClass returns the students of one class ordered by id.
func (r *Roster) ListByClass(class string) []model.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Student, 0)
	for _, s := range r.students {
		if s.Class == class {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Search matches the query case-insensitively against names and roll
// numbers.  An empty query returns an empty result, never the whole
// roster.
func (r *Roster) Search(query string) []model.Student {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Student, 0)
	if query == "" {
		return out
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.students {
		if strings.Contains(strings.ToLower(s.Name), query) ||
			strings.Contains(strings.ToLower(s.RollNumber), query) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Delete removes the roster entry only.  Satellite records are the
// cascade coordinator's job.  Returns the removed student so the
// coordinator knows which roll number to clean up.
func (r *Roster) Delete(ctx context.Context, id int) (model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	student, ok := r.students[id]
	if !ok {
		return model.Student{}, fmt.Errorf("%w: student %d", ErrNotFound, id)
	}
	if err := r.saveWithLocked(ctx, model.Student{}, id); err != nil {
		return model.Student{}, err
	}
	delete(r.students, id)
	return student, nil
}

// saveWithLocked persists the collection as it would look with the
// pending change applied: upsert when changed.ID is non-zero, removal
// of removeID otherwise.  The map itself is only mutated after the
// persister accepts the snapshot, so a storage failure leaves memory
// and disk consistent.
func (r *Roster) saveWithLocked(ctx context.Context, changed model.Student, removeID int) error {
	list := r.sortedLocked(removeID)
	if changed.ID != 0 {
		replaced := false
		for i := range list {
			if list[i].ID == changed.ID {
				list[i] = changed
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, changed)
		}
	}
	return r.persist.Save(ctx, CollectionStudents, list)
}

func (r *Roster) sortedLocked(skipID int) []model.Student {
	list := make([]model.Student, 0, len(r.students))
	for _, s := range r.students {
		if s.ID == skipID {
			continue
		}
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
