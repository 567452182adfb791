package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-attendance/internal/middleware"
	"github.com/iliyamo/school-attendance/internal/service"
	"github.com/iliyamo/school-attendance/internal/store"
)

// StudentHandler exposes roster CRUD and search.
type StudentHandler struct {
	Roster *service.RosterService
}

func NewStudentHandler(roster *service.RosterService) *StudentHandler {
	return &StudentHandler{Roster: roster}
}

type createStudentReq struct {
	Name  string `json:"name" validate:"required"`
	DOB   string `json:"dob" validate:"required,datetime=2006-01-02"`
	Class string `json:"class" validate:"required"`
}

// updateStudentReq carries optional mutable fields.  ID and roll
// number are bound too, but only so their presence can be rejected:
// they are immutable.
type updateStudentReq struct {
	Name       *string `json:"name"`
	DOB        *string `json:"dob"`
	Class      *string `json:"class"`
	ID         *int    `json:"id"`
	RollNumber *string `json:"roll_number"`
}

// List handles GET /api/students.
func (h *StudentHandler) List(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	return c.JSON(http.StatusOK, h.Roster.List(actor))
}

// Create handles POST /api/students.
func (h *StudentHandler) Create(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req createStudentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, dob (YYYY-MM-DD) and class are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	student, err := h.Roster.Create(ctx, actor, req.Name, req.DOB, req.Class)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, student)
}

// Get handles GET /api/students/:id.
func (h *StudentHandler) Get(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	student, err := h.Roster.Get(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, student)
}

// Update handles PUT /api/students/:id.
func (h *StudentHandler) Update(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateStudentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ID != nil || req.RollNumber != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id and roll_number are immutable"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	student, err := h.Roster.Update(ctx, actor, id, store.UpdateParams{
		Name:  req.Name,
		DOB:   req.DOB,
		Class: req.Class,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, student)
}

// Delete handles DELETE /api/students/:id.  Principal only; removes
// the student and all satellite data through the cascade coordinator.
func (h *StudentHandler) Delete(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Roster.Delete(ctx, actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Student and all associated data deleted successfully"})
}

// Search handles GET /api/students/search?q=.  An empty query returns
// an empty list.
func (h *StudentHandler) Search(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	return c.JSON(http.StatusOK, h.Roster.Search(actor, c.QueryParam("q")))
}
