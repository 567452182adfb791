package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-attendance/internal/middleware"
	"github.com/iliyamo/school-attendance/internal/service"
)

// FaceHandler exposes liveness registration and status.
type FaceHandler struct {
	Attendance *service.AttendanceService
}

func NewFaceHandler(att *service.AttendanceService) *FaceHandler {
	return &FaceHandler{Attendance: att}
}

// Register handles POST /api/student/register-face.
func (h *FaceHandler) Register(c echo.Context) error {
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

	if _, err := h.Attendance.RegisterFace(ctx, actor, req.Image); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":             "Face registered successfully. Please login again to mark attendance.",
		"student_roll_number": actor.Username,
	})
}

// Status handles GET /api/student/face-status.
func (h *FaceHandler) Status(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	registered, err := h.Attendance.FaceStatus(actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"face_registered":     registered,
		"student_roll_number": actor.Username,
	})
}
