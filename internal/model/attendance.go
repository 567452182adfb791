package model

import "time"

// Attendance statuses.  Absence is implicit: a student with no record
// for a date is absent, and "absent" is only ever persisted when a
// staff member marks it explicitly.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// MethodLiveness is the only marking method the system supports: a
// camera capture that passed the single-face liveness gate.
const MethodLiveness = "liveness_check"

// AttendanceRecord is one cell of the date-partitioned ledger, keyed
// externally by (date, student id).
//
// Fields:
//  Status    – "present" or "absent".
//  Timestamp – instant the mark was (last) written.
//  Method    – how the mark was produced (always MethodLiveness).
type AttendanceRecord struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
}

// AttendanceEntry is a ledger record joined with its date, as returned
// by per-student history queries.
type AttendanceEntry struct {
	Date string `json:"date"`
	AttendanceRecord
}

// ClassAttendance pairs a student with their status for one date.
// Students with no record default to absent.
type ClassAttendance struct {
	Student     Student    `json:"student"`
	TodayStatus string     `json:"today_status"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}
