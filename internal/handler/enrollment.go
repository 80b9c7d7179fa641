package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minafarid/academic-records-api/internal/middleware"
	"github.com/minafarid/academic-records-api/internal/queue"
	"github.com/minafarid/academic-records-api/internal/repository"
	publisher "github.com/minafarid/academic-records-api/internal/service"
)

type enrollReq struct {
	CourseID  uint64 `json:"course_id"`
	ProfileID uint64 `json:"profile_id"` // honored for ADMIN callers only
}

// Enroll handles POST /v1/enrollments ({STUDENT, ADMIN}). A student enrolls
// their own profile; an admin may enroll any profile by id. A confirmed
// enrollment is announced on the broker; publish failures are logged and do
// not fail the request.
func (h *RecordsHandler) Enroll(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req enrollReq
	if err := c.Bind(&req); err != nil || req.CourseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "course_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, _ := c.Get(middleware.CtxRole).(string)
	var profile *repository.Profile
	var err error
	if req.ProfileID != 0 && role == repository.RoleAdmin {
		profile, err = h.Profiles.GetByID(ctx, req.ProfileID)
	} else {
		profile, err = h.Profiles.GetByUserID(ctx, uid)
	}
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	course, err := h.Courses.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	e := &repository.Enrollment{ProfileID: profile.ID, CourseID: course.ID}
	if err := h.Enrollments.Create(ctx, e); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already enrolled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "enroll failed"})
	}

	event := queue.EnrollmentCreatedEvent{
		EnrollmentID: e.ID,
		ProfileID:    profile.ID,
		MatricNo:     profile.MatricNo,
		CourseID:     course.ID,
		CourseCode:   course.Code,
		CourseTitle:  course.Title,
		EnrolledAt:   e.EnrolledAt.UTC().Format(time.RFC3339),
	}
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pcancel()
		if err := publisher.PublishEnrollmentCreated(pctx, event); err != nil {
			log.Printf("enroll: event publish failed for enrollment %d: %v", e.ID, err)
		}
	}()

	return c.JSON(http.StatusCreated, e)
}

// CourseEnrollments handles GET /v1/courses/:id/enrollments ({ADMIN, FACULTY}).
func (h *RecordsHandler) CourseEnrollments(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Courses.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.Enrollments.ListByCourse(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
