package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minafarid/academic-records-api/internal/config"
	"github.com/minafarid/academic-records-api/internal/repository"
)

// UserStore is the slice of the user repository registration needs.
// *repository.UserRepo satisfies it; tests use an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, email, password, role string, cost int) (uint64, error)
	Delete(ctx context.Context, id uint64) error
}

// ProfileStore is the profile repository surface used by this handler.
type ProfileStore interface {
	Create(ctx context.Context, p *repository.Profile) error
	GetByID(ctx context.Context, id uint64) (*repository.Profile, error)
	GetByUserID(ctx context.Context, userID uint64) (*repository.Profile, error)
	List(ctx context.Context) ([]*repository.Profile, error)
	Update(ctx context.Context, p *repository.Profile) error
}

// ProfileHandler covers student profile registration and administration.
// Registration is the public path that seeds the identity record: it creates
// the user row (role STUDENT) and the linked profile in one request.
type ProfileHandler struct {
	Cfg      config.Config
	Users    UserStore
	Profiles ProfileStore
}

func NewProfileHandler(cfg config.Config, u UserStore, p ProfileStore) *ProfileHandler {
	return &ProfileHandler{Cfg: cfg, Users: u, Profiles: p}
}

type registerReq struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	MatricNo     string `json:"matric_no"`
	DepartmentID uint64 `json:"department_id"`
	Level        uint16 `json:"level"`
}

// Register handles POST /v1/profiles (public).
func (h *ProfileHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" ||
		strings.TrimSpace(req.MatricNo) == "" || req.DepartmentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name, last_name, matric_no and department_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, repository.RoleStudent, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	p := &repository.Profile{
		UserID:       uid,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		MatricNo:     strings.TrimSpace(req.MatricNo),
		DepartmentID: req.DepartmentID,
		Level:        req.Level,
	}
	if err := h.Profiles.Create(ctx, p); err != nil {
		// The user row went in first; without the profile it would squat on
		// the email forever, so take it back out.
		if derr := h.Users.Delete(ctx, uid); derr != nil {
			log.Printf("register: rollback of user %d failed: %v", uid, derr)
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "matric number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create profile failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// List handles GET /v1/profiles ({ADMIN, FACULTY}).
func (h *ProfileHandler) List(c echo.Context) error {
	items, err := h.Profiles.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/profiles/:id ({ADMIN, FACULTY, STUDENT}).
func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Profiles.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, p)
}

type profileUpdateReq struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DepartmentID uint64 `json:"department_id"`
	Level        uint16 `json:"level"`
}

// Update handles PUT /v1/profiles/:id ({ADMIN}).
func (h *ProfileHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" || req.DepartmentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name, last_name and department_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p := &repository.Profile{
		ID:           id,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		DepartmentID: req.DepartmentID,
		Level:        req.Level,
	}
	if err := h.Profiles.Update(ctx, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Profiles.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}
