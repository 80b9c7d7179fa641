package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minafarid/academic-records-api/internal/repository"
)

type courseReq struct {
	Code         string `json:"code"`
	Title        string `json:"title"`
	Credits      uint8  `json:"credits"`
	DepartmentID uint64 `json:"department_id"`
	LecturerID   uint64 `json:"lecturer_id"`
}

func (r *courseReq) validate() string {
	if strings.TrimSpace(r.Code) == "" || strings.TrimSpace(r.Title) == "" {
		return "code and title required"
	}
	if r.Credits == 0 {
		return "credits required"
	}
	if r.DepartmentID == 0 {
		return "department_id required"
	}
	return ""
}

// CreateCourse handles POST /v1/courses ({ADMIN, FACULTY}).
func (h *RecordsHandler) CreateCourse(c echo.Context) error {
	var req courseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	course := &repository.Course{
		Code:         strings.TrimSpace(req.Code),
		Title:        strings.TrimSpace(req.Title),
		Credits:      req.Credits,
		DepartmentID: req.DepartmentID,
		LecturerID:   req.LecturerID,
	}
	if err := h.Courses.Create(c.Request().Context(), course); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "course code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, course)
}

// ListCourses handles GET /v1/courses ({ADMIN, FACULTY, STUDENT}); supports
// ?department_id= filtering.
func (h *RecordsHandler) ListCourses(c echo.Context) error {
	var deptID uint64
	if s := c.QueryParam("department_id"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid department_id"})
		}
		deptID = v
	}
	items, err := h.Courses.List(c.Request().Context(), deptID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetCourse handles GET /v1/courses/:id ({ADMIN, FACULTY, STUDENT}).
func (h *RecordsHandler) GetCourse(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	course, err := h.Courses.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, course)
}

// UpdateCourse handles PUT /v1/courses/:id ({ADMIN, FACULTY}).
func (h *RecordsHandler) UpdateCourse(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req courseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	course := &repository.Course{
		ID:           id,
		Code:         strings.TrimSpace(req.Code),
		Title:        strings.TrimSpace(req.Title),
		Credits:      req.Credits,
		DepartmentID: req.DepartmentID,
		LecturerID:   req.LecturerID,
	}
	if err := h.Courses.Update(c.Request().Context(), course); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "course code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, course)
}

// DeleteCourse handles DELETE /v1/courses/:id ({ADMIN, FACULTY}). Deleting a
// course drops its enrollments with it.
func (h *RecordsHandler) DeleteCourse(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Courses.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
