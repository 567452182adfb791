package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/iliyamo/school-attendance/internal/face"
	"github.com/iliyamo/school-attendance/internal/model"
	"github.com/iliyamo/school-attendance/internal/queue"
	"github.com/iliyamo/school-attendance/internal/store"
)

// recordingPublisher captures audit events for assertions.
type recordingPublisher struct {
	events []queue.AuditEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event queue.AuditEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) lastAction(t *testing.T) string {
	t.Helper()
	if len(p.events) == 0 {
		t.Fatal("no audit events were published")
	}
	return p.events[len(p.events)-1].Action
}

type fixture struct {
	roster     *store.Roster
	ledger     *store.Ledger
	liveness   *store.LivenessStore
	users      *store.Users
	events     *recordingPublisher
	rosterSvc  *RosterService
	attendance *AttendanceService
	detector   *face.StubDetector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	roster, err := store.NewRoster(ctx, store.NopPersister{})
	if err != nil {
		t.Fatal(err)
	}
	ledger, err := store.NewLedger(ctx, store.NopPersister{})
	if err != nil {
		t.Fatal(err)
	}
	liveness, err := store.NewLivenessStore(ctx, store.NopPersister{})
	if err != nil {
		t.Fatal(err)
	}
	users, err := store.NewUsers(ctx, store.NopPersister{}, 4)
	if err != nil {
		t.Fatal(err)
	}

	detector := &face.StubDetector{Faces: 1}
	events := &recordingPublisher{}
	f := &fixture{
		roster:   roster,
		ledger:   ledger,
		liveness: liveness,
		users:    users,
		events:   events,
		detector: detector,
	}
	gate := face.NewGate(detector, liveness, time.Second)
	f.rosterSvc = NewRosterService(roster, store.NewCascade(roster, ledger, liveness), users, events)
	f.attendance = NewAttendanceService(roster, ledger, liveness, gate, events)
	return f
}

func (f *fixture) addStudent(t *testing.T, name string) model.Student {
	t.Helper()
	s, err := f.roster.Create(context.Background(), name, "2015-04-12", "5A",
		model.Actor{Username: "teacher1", Role: model.RoleTeacher, Name: "Teacher 1"})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func studentActor(s model.Student) model.Actor {
	return model.Actor{Username: s.RollNumber, Role: model.RoleStudent, Name: s.Name, StudentID: s.ID}
}

var (
	principalActor = model.Actor{Username: "principal", Role: model.RolePrincipal, Name: "Principal"}
	teacherActor   = model.Actor{Username: "teacher1", Role: model.RoleTeacher, Name: "Teacher 1"}
)

func testCapture(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestMarkRequiresStudentRole(t *testing.T) {
	f := newFixture(t)
	capture := testCapture(t)

	for _, actor := range []model.Actor{principalActor, teacherActor, {}} {
		if _, err := f.attendance.Mark(context.Background(), actor, capture); !errors.Is(err, store.ErrUnauthorized) {
			t.Errorf("Mark() as %q error = %v, want ErrUnauthorized", actor.Role, err)
		}
	}
}

func TestMarkFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.addStudent(t, "Alice")
	actor := studentActor(s)
	capture := testCapture(t)

	// marking before face registration is rejected
	if _, err := f.attendance.Mark(ctx, actor, capture); !errors.Is(err, face.ErrNotRegistered) {
		t.Fatalf("Mark() before registration error = %v, want ErrNotRegistered", err)
	}

	if _, err := f.attendance.RegisterFace(ctx, actor, capture); err != nil {
		t.Fatalf("RegisterFace() error = %v", err)
	}
	if f.events.lastAction(t) != queue.ActionFaceRegistration {
		t.Errorf("audit action = %q, want %q", f.events.lastAction(t), queue.ActionFaceRegistration)
	}

	registered, err := f.attendance.FaceStatus(actor)
	if err != nil || !registered {
		t.Fatalf("FaceStatus() = %v, %v, want true", registered, err)
	}

	rec, err := f.attendance.Mark(ctx, actor, capture)
	if err != nil {
		t.Fatalf("Mark() error = %v", err)
	}
	if rec.Status != model.StatusPresent || rec.Method != model.MethodLiveness {
		t.Errorf("record = %+v", rec)
	}
	if f.events.lastAction(t) != queue.ActionAttendance {
		t.Errorf("audit action = %q, want %q", f.events.lastAction(t), queue.ActionAttendance)
	}

	// marking twice the same day keeps a single record
	if _, err := f.attendance.Mark(ctx, actor, capture); err != nil {
		t.Fatalf("second Mark() error = %v", err)
	}
	history, err := f.attendance.OwnHistory(actor)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Errorf("history has %d entries after double mark, want 1", len(history))
	}

	// no face, mark refused
	f.detector.Faces = 0
	if _, err := f.attendance.Mark(ctx, actor, capture); !errors.Is(err, face.ErrNoFace) {
		t.Errorf("Mark() with no face error = %v, want ErrNoFace", err)
	}
}

func TestHistoryForRoles(t *testing.T) {
	f := newFixture(t)
	s := f.addStudent(t, "Alice")

	if _, _, err := f.attendance.HistoryFor(studentActor(s), s.ID); !errors.Is(err, store.ErrUnauthorized) {
		t.Errorf("HistoryFor() as student error = %v, want ErrUnauthorized", err)
	}
	if _, _, err := f.attendance.HistoryFor(teacherActor, s.ID); err != nil {
		t.Errorf("HistoryFor() as teacher error = %v", err)
	}
	if _, _, err := f.attendance.HistoryFor(principalActor, 99); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("HistoryFor() unknown student error = %v, want ErrNotFound", err)
	}
}

func TestForClassImplicitAbsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addStudent(t, "Alice")
	f.addStudent(t, "Bob")

	date := "2024-06-15"
	if _, err := f.ledger.Mark(ctx, a.ID, date, model.StatusPresent); err != nil {
		t.Fatal(err)
	}

	out, err := f.attendance.ForClass(teacherActor, "5A", date)
	if err != nil {
		t.Fatalf("ForClass() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("ForClass() returned %d rows, want 2", len(out))
	}
	byID := map[int]model.ClassAttendance{}
	for _, row := range out {
		byID[row.Student.ID] = row
	}
	if got := byID[a.ID]; got.TodayStatus != model.StatusPresent || got.Timestamp == nil {
		t.Errorf("marked student row = %+v", got)
	}
	if got := byID[2]; got.TodayStatus != model.StatusAbsent || got.Timestamp != nil {
		t.Errorf("unmarked student row = %+v, want implicit absent with no timestamp", got)
	}

	if _, err := f.attendance.ForClass(studentActor(a), "5A", date); !errors.Is(err, store.ErrUnauthorized) {
		t.Errorf("ForClass() as student error = %v, want ErrUnauthorized", err)
	}
}

func TestRemoveIsPrincipalOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.addStudent(t, "Alice")
	date := "2024-06-15"
	if _, err := f.ledger.Mark(ctx, s.ID, date, model.StatusPresent); err != nil {
		t.Fatal(err)
	}

	if err := f.attendance.Remove(ctx, teacherActor, s.ID, date); !errors.Is(err, store.ErrUnauthorized) {
		t.Errorf("Remove() as teacher error = %v, want ErrUnauthorized", err)
	}
	if err := f.attendance.Remove(ctx, principalActor, s.ID, date); err != nil {
		t.Fatalf("Remove() as principal error = %v", err)
	}
	if f.events.lastAction(t) != queue.ActionAttendanceRemove {
		t.Errorf("audit action = %q, want %q", f.events.lastAction(t), queue.ActionAttendanceRemove)
	}
	if err := f.attendance.Remove(ctx, principalActor, s.ID, date); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Remove() of absent record error = %v, want ErrNotFound", err)
	}
}
