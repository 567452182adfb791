package service

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/school-attendance/internal/queue"
	"github.com/iliyamo/school-attendance/internal/store"
)

func TestRosterServiceRoleGating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.addStudent(t, "Alice")
	student := studentActor(s)

	if _, err := f.rosterSvc.Create(ctx, student, "Bob", "2015-04-12", "5A"); !errors.Is(err, store.ErrUnauthorized) {
		t.Errorf("Create() as student error = %v, want ErrUnauthorized", err)
	}
	name := "Alice B"
	if _, err := f.rosterSvc.Update(ctx, student, s.ID, store.UpdateParams{Name: &name}); !errors.Is(err, store.ErrUnauthorized) {
		t.Errorf("Update() as student error = %v, want ErrUnauthorized", err)
	}
	if err := f.rosterSvc.Delete(ctx, teacherActor, s.ID); !errors.Is(err, store.ErrUnauthorized) {
		t.Errorf("Delete() as teacher error = %v, want ErrUnauthorized", err)
	}
	if err := f.rosterSvc.Delete(ctx, principalActor, s.ID); err != nil {
		t.Errorf("Delete() as principal error = %v", err)
	}
}

func TestRosterServiceViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.rosterSvc.Create(ctx, teacherActor, "Alice", "2015-04-12", "5A")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, ok := created.Age.(int); !ok {
		t.Errorf("age = %v (%T), want a whole number of years", created.Age, created.Age)
	}
	// the creator's username resolves to the seeded display name
	if created.CreatedBy != "Teacher 1" {
		t.Errorf("created_by = %q, want Teacher 1", created.CreatedBy)
	}
	if f.events.lastAction(t) != queue.ActionCreate {
		t.Errorf("audit action = %q, want %q", f.events.lastAction(t), queue.ActionCreate)
	}

	got, err := f.rosterSvc.Get(ctx, teacherActor, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RollNumber != created.RollNumber {
		t.Errorf("Get() roll = %q, want %q", got.RollNumber, created.RollNumber)
	}
	if f.events.lastAction(t) != queue.ActionRead {
		t.Errorf("audit action = %q, want %q", f.events.lastAction(t), queue.ActionRead)
	}

	if out := f.rosterSvc.Search(teacherActor, ""); len(out) != 0 {
		t.Errorf("Search() with empty query returned %d students, want 0", len(out))
	}
	if out := f.rosterSvc.Search(teacherActor, "ali"); len(out) != 1 {
		t.Errorf("Search(ali) returned %d students, want 1", len(out))
	}
}

func TestRosterServiceDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.addStudent(t, "Alice")

	if _, err := f.ledger.Mark(ctx, s.ID, "2024-06-15", "present"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.liveness.Register(ctx, s.RollNumber); err != nil {
		t.Fatal(err)
	}

	if err := f.rosterSvc.Delete(ctx, principalActor, s.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := f.roster.Get(s.ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("student survived the delete")
	}
	if got := f.ledger.History(s.ID); len(got) != 0 {
		t.Errorf("attendance records survived the delete: %d", len(got))
	}
	if f.liveness.IsRegistered(s.RollNumber) {
		t.Error("liveness registration survived the delete")
	}
	if f.events.lastAction(t) != queue.ActionDelete {
		t.Errorf("audit action = %q, want %q", f.events.lastAction(t), queue.ActionDelete)
	}

	if err := f.rosterSvc.Delete(ctx, principalActor, s.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
