package model

import "time"

// DOBLayout is the wire format for dates of birth and attendance dates.
const DOBLayout = "2006-01-02"

// Student represents one roster entry.  The internal ID is assigned
// once on creation and never reused; the roll number is the
// human-facing identifier (year prefix + three-digit suffix) and its
// suffix IS reused after a deletion frees it.
//
// Fields:
//  ID            – internal numeric identifier, monotonically assigned.
//  Name          – student name, unique case-insensitively across the roster.
//  DOB           – date of birth in YYYY-MM-DD form; may be empty.
//  Class         – class/section label the student belongs to.
//  RollNumber    – year-prefixed three-digit identifier (e.g. "2024007").
//  CreatedAt     – creation timestamp.
//  CreatedBy     – username of the account that created the record.
//  CreatedByRole – role of that account at creation time.
//  UpdatedAt     – last update timestamp (zero until first update).
//  UpdatedBy     – username of the account that last updated the record.
//  UpdatedByRole – role of that account at update time.
type Student struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	DOB           string    `json:"dob"`
	Class         string    `json:"class"`
	RollNumber    string    `json:"roll_number"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedByRole string    `json:"created_by_role,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
	UpdatedBy     string    `json:"updated_by,omitempty"`
	UpdatedByRole string    `json:"updated_by_role,omitempty"`
}

// Age returns the student's age in whole years at the given instant,
// adjusted for whether the birthday has occurred yet this year.  The
// second return value is false when the DOB is absent, unparsable or
// in the future; callers render that as "unknown" rather than erroring.
func (s Student) Age(now time.Time) (int, bool) {
	if s.DOB == "" {
		return 0, false
	}
	dob, err := time.Parse(DOBLayout, s.DOB)
	if err != nil {
		return 0, false
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}
