package store

import (
	"context"
	"testing"

	"github.com/iliyamo/school-attendance/internal/model"
)

func TestJSONFilePersisterRoundTrip(t *testing.T) {
	p, err := NewJSONFilePersister(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONFilePersister() error = %v", err)
	}
	ctx := context.Background()

	var missing []model.Student
	found, err := p.Load(ctx, CollectionStudents, &missing)
	if err != nil {
		t.Fatalf("Load() of unsaved collection error = %v", err)
	}
	if found {
		t.Fatal("Load() of unsaved collection reported found=true")
	}

	saved := []model.Student{
		{ID: 1, Name: "Alice", DOB: "2015-04-12", Class: "5A", RollNumber: "2024001"},
		{ID: 3, Name: "Carol", DOB: "2015-09-01", Class: "5B", RollNumber: "2024002"},
	}
	if err := p.Save(ctx, CollectionStudents, saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var loaded []model.Student
	found, err = p.Load(ctx, CollectionStudents, &loaded)
	if err != nil || !found {
		t.Fatalf("Load() = found %v, err %v", found, err)
	}
	if len(loaded) != 2 || loaded[0].Name != "Alice" || loaded[1].RollNumber != "2024002" {
		t.Errorf("loaded collection does not match saved: %+v", loaded)
	}
}

func TestJSONFilePersisterSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	p, err := NewJSONFilePersister(dir)
	if err != nil {
		t.Fatal(err)
	}
	roster, err := NewRoster(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	created, err := roster.Create(ctx, "Alice", "2015-04-12", "5A", testActor)
	if err != nil {
		t.Fatal(err)
	}

	// a second persister over the same directory sees the write
	p2, err := NewJSONFilePersister(dir)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := NewRoster(ctx, p2)
	if err != nil {
		t.Fatalf("NewRoster() after restart error = %v", err)
	}
	got, err := restored.Get(created.ID)
	if err != nil {
		t.Fatalf("Get() after restart error = %v", err)
	}
	if got.RollNumber != created.RollNumber || got.Name != created.Name {
		t.Errorf("restored student = %+v, want %+v", got, created)
	}
}

func TestJSONFilePersisterLedgerShape(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	p, err := NewJSONFilePersister(dir)
	if err != nil {
		t.Fatal(err)
	}
	ledger, err := NewLedger(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.Mark(ctx, 7, "2024-06-15", model.StatusPresent); err != nil {
		t.Fatal(err)
	}

	restored, err := NewLedger(ctx, p)
	if err != nil {
		t.Fatalf("NewLedger() after restart error = %v", err)
	}
	day := restored.ForDate("2024-06-15")
	if rec, ok := day[7]; !ok || rec.Status != model.StatusPresent {
		t.Errorf("restored partition = %+v, want student 7 present", day)
	}
}
