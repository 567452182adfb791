// Package auth issues and verifies the access tokens the HTTP layer
// uses in place of the old session cookie.  A token carries enough
// claims to rebuild the acting identity (username, role, display name
// and, for students, the internal student id) without a store lookup.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/school-attendance/internal/model"
)

// AccessToken is a signed HS256 JWT plus its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken signs a token for the given actor.  Claims: sub is
// the username (staff) or roll number (students), plus role, name and
// student_id, with exp/iat as standard.
func NewAccessToken(secret string, actor model.Actor, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  actor.Username,
		"role": actor.Role,
		"name": actor.Name,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	if actor.StudentID != 0 {
		claims["student_id"] = actor.StudentID
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseActor verifies a token string and rebuilds the actor from its
// claims.
func ParseActor(secret, raw string) (model.Actor, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return model.Actor{}, fmt.Errorf("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Actor{}, fmt.Errorf("invalid claims")
	}
	actor := model.Actor{}
	if v, ok := claims["sub"].(string); ok {
		actor.Username = v
	}
	if v, ok := claims["role"].(string); ok {
		actor.Role = v
	}
	if v, ok := claims["name"].(string); ok {
		actor.Name = v
	}
	if v, ok := claims["student_id"].(float64); ok {
		actor.StudentID = int(v)
	}
	if actor.Username == "" || actor.Role == "" {
		return model.Actor{}, fmt.Errorf("incomplete claims")
	}
	return actor, nil
}
