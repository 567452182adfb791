package auth

import (
	"testing"

	"github.com/iliyamo/school-attendance/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := "secret"

	tests := []struct {
		name  string
		actor model.Actor
	}{
		{name: "staff", actor: model.Actor{Username: "principal", Role: model.RolePrincipal, Name: "Principal"}},
		{name: "student", actor: model.Actor{Username: "2024001", Role: model.RoleStudent, Name: "Alice", StudentID: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := NewAccessToken(secret, tt.actor, 60)
			if err != nil {
				t.Fatalf("NewAccessToken() error = %v", err)
			}
			got, err := ParseActor(secret, tok.Token)
			if err != nil {
				t.Fatalf("ParseActor() error = %v", err)
			}
			if got != tt.actor {
				t.Errorf("round-tripped actor = %+v, want %+v", got, tt.actor)
			}
		})
	}
}

func TestParseActorRejects(t *testing.T) {
	actor := model.Actor{Username: "teacher1", Role: model.RoleTeacher, Name: "Teacher 1"}
	tok, err := NewAccessToken("secret", actor, 60)
	if err != nil {
		t.Fatal(err)
	}
	expired, err := NewAccessToken("secret", actor, -1)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		secret string
		raw    string
	}{
		{name: "garbage", secret: "secret", raw: "not.a.jwt"},
		{name: "wrong secret", secret: "other", raw: tok.Token},
		{name: "expired", secret: "secret", raw: expired.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseActor(tt.secret, tt.raw); err == nil {
				t.Error("ParseActor() accepted an invalid token")
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("teacher123", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !VerifyPassword(hash, "teacher123") {
		t.Error("VerifyPassword() rejected the correct password")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("VerifyPassword() accepted a wrong password")
	}
}
