package model

// Roles understood by the service.  Principal outranks teacher for
// every teacher-gated operation; students may only act on their own
// identity.
const (
	RolePrincipal = "principal"
	RoleTeacher   = "teacher"
	RoleStudent   = "student"
)

// Actor identifies who is performing a core operation.  The HTTP layer
// builds it from the verified token; core services use it for role
// preconditions and stamp it into audit events and record metadata.
//
// Fields:
//  Username  – login name (staff) or roll number (students).
//  Role      – one of RolePrincipal, RoleTeacher, RoleStudent.
//  Name      – display name.
//  StudentID – internal student id; zero for staff actors.
type Actor struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	StudentID int    `json:"student_id,omitempty"`
}

// IsStaff reports whether the actor holds a staff role.
func (a Actor) IsStaff() bool {
	return a.Role == RolePrincipal || a.Role == RoleTeacher
}
