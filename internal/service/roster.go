// Package service wraps the stores with role preconditions: every
// operation takes the acting user and enforces its own gate instead of
// trusting the HTTP boundary alone, so the core stays safe to embed
// behind any transport.  Mutations emit audit events carrying the
// actor.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/school-attendance/internal/model"
	"github.com/iliyamo/school-attendance/internal/queue"
	"github.com/iliyamo/school-attendance/internal/store"
)

// StudentView is a student decorated for read responses: age derived
// from the date of birth at read time (never stored) and audit
// usernames resolved to display names.
type StudentView struct {
	model.Student
	Age any `json:"age"`
}

// RosterService exposes roster operations with role preconditions.
type RosterService struct {
	roster  *store.Roster
	cascade *store.Cascade
	users   *store.Users
	events  queue.Publisher
}

// NewRosterService wires the service.
func NewRosterService(roster *store.Roster, cascade *store.Cascade, users *store.Users, events queue.Publisher) *RosterService {
	return &RosterService{roster: roster, cascade: cascade, users: users, events: events}
}

// view derives the age and resolves audit usernames.  Age renders as
// "unknown" when the date of birth is absent or unparsable; the
// derivation never errors out of a read.
func (s *RosterService) view(student model.Student) StudentView {
	v := StudentView{Student: student}
	if age, ok := student.Age(time.Now()); ok {
		v.Age = age
	} else {
		v.Age = "unknown"
	}
	v.CreatedBy = s.users.ResolveName(student.CreatedBy)
	if student.UpdatedBy != "" {
		v.UpdatedBy = s.users.ResolveName(student.UpdatedBy)
	}
	return v
}

func (s *RosterService) views(students []model.Student) []StudentView {
	out := make([]StudentView, 0, len(students))
	for _, st := range students {
		out = append(out, s.view(st))
	}
	return out
}

// Create adds a student to the roster.  Staff only.
func (s *RosterService) Create(ctx context.Context, actor model.Actor, name, dob, class string) (StudentView, error) {
	if !actor.IsStaff() {
		return StudentView{}, fmt.Errorf("%w: staff role required", store.ErrUnauthorized)
	}
	student, err := s.roster.Create(ctx, name, dob, class, actor)
	if err != nil {
		return StudentView{}, err
	}
	_ = s.events.Publish(ctx, queue.NewAuditEvent(queue.ActionCreate, actor, student.ID,
		fmt.Sprintf("Student: %s (ID: %d)", student.Name, student.ID)))
	return s.view(student), nil
}

// Update mutates name/dob/class.  Staff only; id and roll number are
// immutable and rejected upstream.
func (s *RosterService) Update(ctx context.Context, actor model.Actor, id int, params store.UpdateParams) (StudentView, error) {
	if !actor.IsStaff() {
		return StudentView{}, fmt.Errorf("%w: staff role required", store.ErrUnauthorized)
	}
	student, err := s.roster.Update(ctx, id, params, actor)
	if err != nil {
		return StudentView{}, err
	}
	_ = s.events.Publish(ctx, queue.NewAuditEvent(queue.ActionUpdate, actor, student.ID,
		fmt.Sprintf("Student: %s (ID: %d)", student.Name, student.ID)))
	return s.view(student), nil
}

// Get returns one student by internal id.
func (s *RosterService) Get(ctx context.Context, actor model.Actor, id int) (StudentView, error) {
	student, err := s.roster.Get(id)
	if err != nil {
		return StudentView{}, err
	}
	_ = s.events.Publish(ctx, queue.NewAuditEvent(queue.ActionRead, actor, student.ID,
		fmt.Sprintf("Student: %s (ID: %d)", student.Name, student.ID)))
	return s.view(student), nil
}

// List returns the whole roster.
func (s *RosterService) List(actor model.Actor) []StudentView {
	return s.views(s.roster.List())
}

// Search matches name or roll number case-insensitively.  An empty
// query yields an empty result so a blank search box cannot disclose
// the full roster.
func (s *RosterService) Search(actor model.Actor, query string) []StudentView {
	return s.views(s.roster.Search(query))
}

// Delete removes a student and all satellite data through the cascade
// coordinator.  Principal only.
func (s *RosterService) Delete(ctx context.Context, actor model.Actor, id int) error {
	if actor.Role != model.RolePrincipal {
		return fmt.Errorf("%w: principal role required", store.ErrUnauthorized)
	}
	student, err := s.cascade.DeleteStudent(ctx, id)
	if err != nil {
		return err
	}
	_ = s.events.Publish(ctx, queue.NewAuditEvent(queue.ActionDelete, actor, id,
		fmt.Sprintf("Student: %s (ID: %d) - Removed all attendance and face data", student.Name, id)))
	return nil
}
