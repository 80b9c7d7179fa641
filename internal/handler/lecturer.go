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

type lecturerReq struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	DepartmentID uint64 `json:"department_id"`
}

func (r *lecturerReq) validate() string {
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return "first_name and last_name required"
	}
	if strings.TrimSpace(r.Email) == "" {
		return "email required"
	}
	if r.DepartmentID == 0 {
		return "department_id required"
	}
	return ""
}

// CreateLecturer handles POST /v1/lecturers ({ADMIN}).
func (h *RecordsHandler) CreateLecturer(c echo.Context) error {
	var req lecturerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	l := &repository.Lecturer{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.TrimSpace(req.Email),
		DepartmentID: req.DepartmentID,
	}
	if err := h.Lecturers.Create(c.Request().Context(), l); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "lecturer email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, l)
}

// ListLecturers handles GET /v1/lecturers ({ADMIN, FACULTY}); supports
// ?department_id= filtering.
func (h *RecordsHandler) ListLecturers(c echo.Context) error {
	var deptID uint64
	if s := c.QueryParam("department_id"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid department_id"})
		}
		deptID = v
	}
	items, err := h.Lecturers.List(c.Request().Context(), deptID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetLecturer handles GET /v1/lecturers/:id ({ADMIN, FACULTY}).
func (h *RecordsHandler) GetLecturer(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	l, err := h.Lecturers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLecturerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lecturer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, l)
}

// UpdateLecturer handles PUT /v1/lecturers/:id ({ADMIN}).
func (h *RecordsHandler) UpdateLecturer(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req lecturerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	l := &repository.Lecturer{
		ID:           id,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.TrimSpace(req.Email),
		DepartmentID: req.DepartmentID,
	}
	if err := h.Lecturers.Update(c.Request().Context(), l); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lecturer not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "lecturer email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, l)
}

// DeleteLecturer handles DELETE /v1/lecturers/:id ({ADMIN}).
func (h *RecordsHandler) DeleteLecturer(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Lecturers.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lecturer not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "lecturer still teaches courses"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
