package handler

// public_catalog.go exposes sanitized, unauthenticated browse endpoints for
// prospective students. These are the only routes behind the Redis response
// cache; everything gated by authentication is never cached.

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/minafarid/academic-records-api/internal/repository"
)

// CatalogHandler serves the public course catalog.
type CatalogHandler struct {
	DeptRepo   *repository.DepartmentRepo
	CourseRepo *repository.CourseRepo
}

func NewCatalogHandler(d *repository.DepartmentRepo, co *repository.CourseRepo) *CatalogHandler {
	return &CatalogHandler{DeptRepo: d, CourseRepo: co}
}

// Departments handles GET /v1/catalog/departments (public).
func (h *CatalogHandler) Departments(c echo.Context) error {
	items, err := h.DeptRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type catalogCourse struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Credits uint8  `json:"credits"`
}

// Courses handles GET /v1/catalog/courses (public). Only code, title and
// credits are exposed; lecturer assignments stay internal.
func (h *CatalogHandler) Courses(c echo.Context) error {
	var deptID uint64
	if s := c.QueryParam("department_id"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid department_id"})
		}
		deptID = v
	}
	courses, err := h.CourseRepo.List(c.Request().Context(), deptID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]catalogCourse, 0, len(courses))
	for _, co := range courses {
		out = append(out, catalogCourse{Code: co.Code, Title: co.Title, Credits: co.Credits})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
