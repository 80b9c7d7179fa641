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

// RecordsHandler bundles the domain repositories behind the CRUD endpoints
// for departments, lecturers, courses and enrollments.
type RecordsHandler struct {
	Departments *repository.DepartmentRepo
	Lecturers   *repository.LecturerRepo
	Courses     *repository.CourseRepo
	Profiles    *repository.ProfileRepo
	Enrollments *repository.EnrollmentRepo
}

func NewRecordsHandler(d *repository.DepartmentRepo, l *repository.LecturerRepo,
	co *repository.CourseRepo, p *repository.ProfileRepo, e *repository.EnrollmentRepo) *RecordsHandler {
	return &RecordsHandler{Departments: d, Lecturers: l, Courses: co, Profiles: p, Enrollments: e}
}

type departmentReq struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CreateDepartment handles POST /v1/departments ({ADMIN}).
func (h *RecordsHandler) CreateDepartment(c echo.Context) error {
	var req departmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code and name required"})
	}
	d := &repository.Department{Code: code, Name: name}
	if err := h.Departments.Create(c.Request().Context(), d); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "department code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, d)
}

// ListDepartments handles GET /v1/departments (any authenticated identity).
func (h *RecordsHandler) ListDepartments(c echo.Context) error {
	items, err := h.Departments.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateDepartment handles PUT /v1/departments/:id ({ADMIN}).
func (h *RecordsHandler) UpdateDepartment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req departmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code and name required"})
	}
	if err := h.Departments.Update(c.Request().Context(), id, code, name); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "department not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "department code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, _ := h.Departments.GetByID(c.Request().Context(), id)
	return c.JSON(http.StatusOK, updated)
}

// DeleteDepartment handles DELETE /v1/departments/:id ({ADMIN}).
func (h *RecordsHandler) DeleteDepartment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Departments.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "department not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "department still has courses or lecturers"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
