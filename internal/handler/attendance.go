package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-attendance/internal/middleware"
	"github.com/iliyamo/school-attendance/internal/model"
	"github.com/iliyamo/school-attendance/internal/service"
)

// AttendanceHandler exposes marking and attendance queries.
type AttendanceHandler struct {
	Attendance *service.AttendanceService
}

func NewAttendanceHandler(att *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{Attendance: att}
}

type captureReq struct {
	Image string `json:"image" validate:"required"`
}

// Mark handles POST /api/student/attendance: the student submits a
// camera capture, the liveness gate checks for exactly one face and
// today's record is upserted.
func (h *AttendanceHandler) Mark(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	var req captureReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image data is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	rec, err := h.Attendance.Mark(ctx, actor, req.Image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Attendance marked successfully",
		"attendance": rec,
	})
}

// OwnHistory handles GET /api/student/attendance-history for the
// logged-in student.
func (h *AttendanceHandler) OwnHistory(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	history, err := h.Attendance.OwnHistory(actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"student": echo.Map{
			"name":        actor.Name,
			"roll_number": actor.Username,
		},
		"attendance": history,
	})
}

// HistoryFor handles GET /api/students/:id/attendance for staff.
func (h *AttendanceHandler) HistoryFor(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	student, history, err := h.Attendance.HistoryFor(actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"student":    student,
		"attendance": history,
	})
}

// ForClass handles GET /api/attendance/class/:class.  Students with no
// record for the date report as absent.
func (h *AttendanceHandler) ForClass(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	class := c.Param("class")
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().UTC().Format(model.DOBLayout)
	}
	entries, err := h.Attendance.ForClass(actor, class, date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"class":      class,
		"date":       date,
		"attendance": entries,
	})
}

// Remove handles DELETE /api/attendance/remove/:id/:date.  Principal
// only.
func (h *AttendanceHandler) Remove(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	date := c.Param("date")

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Attendance.Remove(ctx, actor, id, date); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Attendance record removed successfully",
		"student_id": id,
		"date":       date,
	})
}
