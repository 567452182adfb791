package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/school-attendance/internal/face"
	"github.com/iliyamo/school-attendance/internal/model"
	"github.com/iliyamo/school-attendance/internal/queue"
	"github.com/iliyamo/school-attendance/internal/store"
)

// AttendanceService combines the liveness gate with the ledger and
// enforces who may mark, query and reverse attendance.
type AttendanceService struct {
	roster   *store.Roster
	ledger   *store.Ledger
	liveness *store.LivenessStore
	gate     *face.Gate
	events   queue.Publisher
}

// NewAttendanceService wires the service.
func NewAttendanceService(roster *store.Roster, ledger *store.Ledger, liveness *store.LivenessStore, gate *face.Gate, events queue.Publisher) *AttendanceService {
	return &AttendanceService{roster: roster, ledger: ledger, liveness: liveness, gate: gate, events: events}
}

func today() string { return time.Now().UTC().Format(model.DOBLayout) }

// requireOwnStudent gates student-only operations to the student's own
// identity.
func requireOwnStudent(actor model.Actor) error {
	if actor.Role != model.RoleStudent || actor.StudentID == 0 {
		return fmt.Errorf("%w: only students can perform this action", store.ErrUnauthorized)
	}
	return nil
}

// requireTeacher gates query operations to teachers and the principal.
func requireTeacher(actor model.Actor) error {
	if actor.Role != model.RoleTeacher && actor.Role != model.RolePrincipal {
		return fmt.Errorf("%w: teacher role required", store.ErrUnauthorized)
	}
	return nil
}

// Mark runs the capture through the liveness gate and, on a single
// detected face, upserts today's record for the acting student.
// Students only, own identity: the roll number checked is the actor's
// own, never a parameter.
func (s *AttendanceService) Mark(ctx context.Context, actor model.Actor, imagePayload string) (model.AttendanceRecord, error) {
	if err := requireOwnStudent(actor); err != nil {
		return model.AttendanceRecord{}, err
	}
	if imagePayload == "" {
		return model.AttendanceRecord{}, fmt.Errorf("%w: image data is required", store.ErrInvalidInput)
	}
	if err := s.gate.VerifyForMark(ctx, actor.Username, imagePayload); err != nil {
		return model.AttendanceRecord{}, err
	}
	rec, err := s.ledger.Mark(ctx, actor.StudentID, today(), model.StatusPresent)
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	_ = s.events.Publish(ctx, queue.NewAuditEvent(queue.ActionAttendance, actor, actor.StudentID,
		fmt.Sprintf("Student: %s marked present", actor.Name)))
	return rec, nil
}

// RegisterFace runs a registration capture through the gate and stores
// the liveness flag for the acting student.
func (s *AttendanceService) RegisterFace(ctx context.Context, actor model.Actor, imagePayload string) (model.LivenessRegistration, error) {
	if err := requireOwnStudent(actor); err != nil {
		return model.LivenessRegistration{}, err
	}
	if imagePayload == "" {
		return model.LivenessRegistration{}, fmt.Errorf("%w: image data is required", store.ErrInvalidInput)
	}
	reg, err := s.gate.Register(ctx, actor.Username, imagePayload)
	if err != nil {
		return model.LivenessRegistration{}, err
	}
	_ = s.events.Publish(ctx, queue.NewAuditEvent(queue.ActionFaceRegistration, actor, actor.StudentID,
		fmt.Sprintf("Student: %s registered face", actor.Name)))
	return reg, nil
}

// OwnHistory returns the acting student's records, most recent first.
func (s *AttendanceService) OwnHistory(actor model.Actor) ([]model.AttendanceEntry, error) {
	if err := requireOwnStudent(actor); err != nil {
		return nil, err
	}
	return s.ledger.History(actor.StudentID), nil
}

// HistoryFor returns a student's records for staff.  Teacher or
// principal.
func (s *AttendanceService) HistoryFor(actor model.Actor, studentID int) (model.Student, []model.AttendanceEntry, error) {
	if err := requireTeacher(actor); err != nil {
		return model.Student{}, nil, err
	}
	student, err := s.roster.Get(studentID)
	if err != nil {
		return model.Student{}, nil, err
	}
	return student, s.ledger.History(studentID), nil
}

// ForClass joins the class roster against today's ledger partition.
// Students with no record for the date report as absent, never as an
// error.  Teacher or principal.
func (s *AttendanceService) ForClass(actor model.Actor, class, date string) ([]model.ClassAttendance, error) {
	if err := requireTeacher(actor); err != nil {
		return nil, err
	}
	if date == "" {
		date = today()
	}
	day := s.ledger.ForDate(date)
	students := s.roster.ListByClass(class)
	out := make([]model.ClassAttendance, 0, len(students))
	for _, st := range students {
		entry := model.ClassAttendance{Student: st, TodayStatus: model.StatusAbsent}
		if rec, ok := day[st.ID]; ok {
			entry.TodayStatus = rec.Status
			ts := rec.Timestamp
			entry.Timestamp = &ts
		}
		out = append(out, entry)
	}
	return out, nil
}

// Remove reverses one (student, date) record.  Principal only.
func (s *AttendanceService) Remove(ctx context.Context, actor model.Actor, studentID int, date string) error {
	if actor.Role != model.RolePrincipal {
		return fmt.Errorf("%w: principal role required", store.ErrUnauthorized)
	}
	if err := s.ledger.Remove(ctx, studentID, date); err != nil {
		return err
	}
	_ = s.events.Publish(ctx, queue.NewAuditEvent(queue.ActionAttendanceRemove, actor, studentID,
		fmt.Sprintf("Removed attendance for student ID %d on %s", studentID, date)))
	return nil
}

// FaceStatus reports whether the acting student has a liveness
// registration.
func (s *AttendanceService) FaceStatus(actor model.Actor) (bool, error) {
	if err := requireOwnStudent(actor); err != nil {
		return false, err
	}
	return s.liveness.IsRegistered(actor.Username), nil
}
