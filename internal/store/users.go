package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/school-attendance/internal/auth"
	"github.com/iliyamo/school-attendance/internal/model"
)

// Users is the staff-account store (principal and teachers).  When the
// persisted collection is empty the default accounts are seeded so a
// fresh deployment can be logged into immediately.
type Users struct {
	mu      sync.RWMutex
	users   map[string]model.User
	persist Persister
	cost    int
}

// defaultAccounts mirrors the accounts the service has always shipped
// with. Passwords are hashed at seed time, never stored in clear.
var defaultAccounts = []struct {
	username, password, role, name string
}{
	{"principal", "principal123", model.RolePrincipal, "Principal"},
	{"teacher1", "teacher123", model.RoleTeacher, "Teacher 1"},
	{"teacher2", "teacher123", model.RoleTeacher, "Teacher 2"},
}

// NewUsers restores the users collection, seeding defaults when none
// was ever saved.
func NewUsers(ctx context.Context, p Persister, bcryptCost int) (*Users, error) {
	u := &Users{users: make(map[string]model.User), persist: p, cost: bcryptCost}
	found, err := p.Load(ctx, CollectionUsers, &u.users)
	if err != nil {
		return nil, err
	}
	if !found || len(u.users) == 0 {
		for _, acc := range defaultAccounts {
			hash, err := auth.HashPassword(acc.password, bcryptCost)
			if err != nil {
				return nil, fmt.Errorf("seed user %s: %w", acc.username, err)
			}
			u.users[acc.username] = model.User{
				Username:     acc.username,
				PasswordHash: hash,
				Role:         acc.role,
				Name:         acc.name,
			}
		}
		if err := p.Save(ctx, CollectionUsers, u.users); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Authenticate verifies a username/password pair and returns the user.
func (u *Users) Authenticate(username, password string) (model.User, error) {
	u.mu.RLock()
	usr, ok := u.users[username]
	u.mu.RUnlock()
	if !ok || !auth.VerifyPassword(usr.PasswordHash, password) {
		return model.User{}, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}
	return usr, nil
}

// Get returns a staff account by username.
func (u *Users) Get(username string) (model.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	usr, ok := u.users[username]
	if !ok {
		return model.User{}, fmt.Errorf("%w: user %s", ErrNotFound, username)
	}
	return usr, nil
}

// ResolveName maps a username to its display name, falling back to the
// username itself for unknown accounts.
func (u *Users) ResolveName(username string) string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if usr, ok := u.users[username]; ok && usr.Name != "" {
		return usr.Name
	}
	return username
}

// ChangePassword rotates a staff password after verifying the current
// one.  Teacher accounts keep the superseded hash in their history.
func (u *Users) ChangePassword(ctx context.Context, username, current, next string) error {
	if len(next) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", ErrInvalidInput)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	usr, ok := u.users[username]
	if !ok {
		return fmt.Errorf("%w: user %s", ErrNotFound, username)
	}
	if usr.Role != model.RolePrincipal && usr.Role != model.RoleTeacher {
		return fmt.Errorf("%w: only staff accounts can change passwords", ErrUnauthorized)
	}
	if !auth.VerifyPassword(usr.PasswordHash, current) {
		return fmt.Errorf("%w: current password is incorrect", ErrUnauthorized)
	}

	hash, err := auth.HashPassword(next, u.cost)
	if err != nil {
		return err
	}
	if usr.Role == model.RoleTeacher {
		usr.PasswordHistory = append(usr.PasswordHistory, model.PasswordEntry{
			PasswordHash: usr.PasswordHash,
			ChangedAt:    time.Now().UTC(),
		})
	}
	usr.PasswordHash = hash

	if err := u.saveLocked(ctx, usr); err != nil {
		return err
	}
	u.users[username] = usr
	return nil
}

// ListTeachers returns all teacher accounts ordered by username.
func (u *Users) ListTeachers() []model.User {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]model.User, 0)
	for _, usr := range u.users {
		if usr.Role == model.RoleTeacher {
			out = append(out, usr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// UpdateTeacherName renames a teacher account.
func (u *Users) UpdateTeacherName(ctx context.Context, username, name string) (model.User, error) {
	if name == "" {
		return model.User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	usr, ok := u.users[username]
	if !ok {
		return model.User{}, fmt.Errorf("%w: teacher %s", ErrNotFound, username)
	}
	if usr.Role != model.RoleTeacher {
		return model.User{}, fmt.Errorf("%w: user %s is not a teacher", ErrInvalidInput, username)
	}
	usr.Name = name

	if err := u.saveLocked(ctx, usr); err != nil {
		return model.User{}, err
	}
	u.users[username] = usr
	return usr, nil
}

func (u *Users) saveLocked(ctx context.Context, changed model.User) error {
	clone := make(map[string]model.User, len(u.users))
	for k, v := range u.users {
		clone[k] = v
	}
	clone[changed.Username] = changed
	return u.persist.Save(ctx, CollectionUsers, clone)
}
