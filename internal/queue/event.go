// Package queue defines the audit events exchanged over the message
// broker and the background consumer that turns them into the audit
// log.  Every mutating core operation emits one event carrying the
// acting user, replacing the old in-process master.log writes.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/school-attendance/internal/model"
)

// AuditQueueName is the durable queue audit events are published to.
const AuditQueueName = "attendance.audit"

// Audit actions.
const (
	ActionCreate           = "CREATE"
	ActionRead             = "READ"
	ActionUpdate           = "UPDATE"
	ActionDelete           = "DELETE"
	ActionAttendance       = "ATTENDANCE"
	ActionAttendanceRemove = "ATTENDANCE_REMOVAL"
	ActionFaceRegistration = "FACE_REGISTRATION"
)

// AuditEvent records one mutating operation for the audit trail.
//
// Fields:
//  ID         – unique event id.
//  Action     – one of the Action constants.
//  Actor      – who performed the operation.
//  StudentID  – affected student's internal id, zero when not
//               student-scoped (e.g. teacher rename).
//  Detail     – human-readable description for the log line.
//  OccurredAt – instant the operation completed.
type AuditEvent struct {
	ID         string      `json:"id"`
	Action     string      `json:"action"`
	Actor      model.Actor `json:"actor"`
	StudentID  int         `json:"student_id,omitempty"`
	Detail     string      `json:"detail"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// NewAuditEvent stamps id and timestamp.
func NewAuditEvent(action string, actor model.Actor, studentID int, detail string) AuditEvent {
	return AuditEvent{
		ID:         uuid.NewString(),
		Action:     action,
		Actor:      actor,
		StudentID:  studentID,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}
}
