package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-attendance/internal/auth"
	"github.com/iliyamo/school-attendance/internal/config"
	"github.com/iliyamo/school-attendance/internal/middleware"
	"github.com/iliyamo/school-attendance/internal/model"
	"github.com/iliyamo/school-attendance/internal/store"
)

// AuthHandler bundles dependencies for login and password endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *store.Users
	Roster *store.Roster
}

func NewAuthHandler(cfg config.Config, users *store.Users, roster *store.Roster) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Roster: roster}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
type studentLoginReq struct {
	RollNumber string `json:"roll_number" validate:"required"`
}
type changePasswordReq struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type authResp struct {
	Message string      `json:"message"`
	User    model.Actor `json:"user"`
	Token   string      `json:"token"`
	Expires time.Time   `json:"expires"`
}

// Login authenticates a staff account and returns an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	usr, err := h.Users.Authenticate(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}

	actor := model.Actor{Username: usr.Username, Role: usr.Role, Name: usr.Name}
	token, err := auth.NewAccessToken(h.Cfg.JWTSecret, actor, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		Message: "Login successful",
		User:    actor,
		Token:   token.Token,
		Expires: token.Exp,
	})
}

// StudentLogin authenticates a student by roll number and returns a
// student-scoped token.
func (h *AuthHandler) StudentLogin(c echo.Context) error {
	var req studentLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "roll number is required"})
	}

	student, err := h.Roster.GetByRoll(strings.TrimSpace(req.RollNumber))
	if err != nil {
		return writeError(c, err)
	}

	actor := model.Actor{
		Username:  student.RollNumber,
		Role:      model.RoleStudent,
		Name:      student.Name,
		StudentID: student.ID,
	}
	token, err := auth.NewAccessToken(h.Cfg.JWTSecret, actor, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		Message: "Login successful",
		User:    actor,
		Token:   token.Token,
		Expires: token.Exp,
	})
}

// Me returns the authenticated identity.
func (h *AuthHandler) Me(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	return c.JSON(http.StatusOK, actor)
}

// ChangePassword rotates a staff password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Users.ChangePassword(ctx, actor.Username, req.CurrentPassword, req.NewPassword); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}
