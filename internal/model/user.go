package model

import "time"

// User is a staff account (principal or teacher) able to log in with a
// password.  Students are not users; they authenticate by roll number.
//
// Fields:
//  Username        – unique login name.
//  PasswordHash    – bcrypt hash of the current password.
//  Role            – RolePrincipal or RoleTeacher.
//  Name            – display name shown in audit metadata.
//  PasswordHistory – prior password hashes, kept for teacher accounts
//                    when the password is changed.
type User struct {
	Username        string          `json:"username"`
	PasswordHash    string          `json:"password"`
	Role            string          `json:"role"`
	Name            string          `json:"name"`
	PasswordHistory []PasswordEntry `json:"password_history,omitempty"`
}

// PasswordEntry is one superseded password hash with the instant it
// was rotated out.
type PasswordEntry struct {
	PasswordHash string    `json:"password"`
	ChangedAt    time.Time `json:"changed_at"`
}
