package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-attendance/internal/store"
)

// TeacherHandler exposes the principal's teacher administration.
type TeacherHandler struct {
	Users *store.Users
}

func NewTeacherHandler(users *store.Users) *TeacherHandler {
	return &TeacherHandler{Users: users}
}

type teacherResp struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

type updateTeacherReq struct {
	Name string `json:"name" validate:"required"`
}

// List handles GET /api/teachers.  Unlike the legacy UI this never
// discloses password hashes or history.
func (h *TeacherHandler) List(c echo.Context) error {
	teachers := h.Users.ListTeachers()
	out := make([]teacherResp, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, teacherResp{Username: t.Username, Name: t.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PUT /api/teachers/:username (rename).
func (h *TeacherHandler) Update(c echo.Context) error {
	var req updateTeacherReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	usr, err := h.Users.UpdateTeacherName(ctx, c.Param("username"), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Teacher name updated successfully",
		"teacher": teacherResp{Username: usr.Username, Name: usr.Name, Role: usr.Role},
	})
}
