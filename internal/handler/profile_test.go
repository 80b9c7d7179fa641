package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/minafarid/academic-records-api/internal/config"
	"github.com/minafarid/academic-records-api/internal/repository"
)

// fakeUsers records created and deleted identity rows.
type fakeUsers struct {
	nextID  uint64
	emails  map[uint64]string
	deleted []uint64
}

func newFakeUsers() *fakeUsers { return &fakeUsers{emails: map[uint64]string{}} }

func (f *fakeUsers) Create(_ context.Context, email, _, _ string, _ int) (uint64, error) {
	f.nextID++
	f.emails[f.nextID] = email
	return f.nextID, nil
}

func (f *fakeUsers) Delete(_ context.Context, id uint64) error {
	if _, ok := f.emails[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.emails, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeProfiles fails selectively so handler error paths can be driven.
type fakeProfiles struct {
	createErr error
	getErr    error
	updateErr error
	byID      map[uint64]*repository.Profile
}

func (f *fakeProfiles) Create(_ context.Context, p *repository.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = uint64(len(f.byID) + 1)
	if f.byID == nil {
		f.byID = map[uint64]*repository.Profile{}
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProfiles) GetByID(_ context.Context, id uint64) (*repository.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, repository.ErrProfileNotFound
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID uint64) (*repository.Profile, error) {
	for _, p := range f.byID {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, repository.ErrProfileNotFound
}

func (f *fakeProfiles) List(_ context.Context) ([]*repository.Profile, error) {
	var out []*repository.Profile
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProfiles) Update(_ context.Context, p *repository.Profile) error {
	return f.updateErr
}

func profileCtx(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

const registerBody = `{"email":"a@x.com","password":"pw123","first_name":"Ada","last_name":"Obi","matric_no":"CSC/001","department_id":1}`

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	users := newFakeUsers()
	profiles := &fakeProfiles{}
	h := NewProfileHandler(config.Config{BcryptCost: 4}, users, profiles)

	c, rec := profileCtx(http.MethodPost, "/v1/profiles", registerBody)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	if len(users.emails) != 1 || len(profiles.byID) != 1 {
		t.Errorf("users = %d, profiles = %d, want 1/1", len(users.emails), len(profiles.byID))
	}
}

func TestRegisterRollsBackUserOnProfileConflict(t *testing.T) {
	users := newFakeUsers()
	profiles := &fakeProfiles{createErr: repository.ErrConflict}
	h := NewProfileHandler(config.Config{BcryptCost: 4}, users, profiles)

	c, rec := profileCtx(http.MethodPost, "/v1/profiles", registerBody)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	// The identity row must not be left behind squatting on the email.
	if len(users.emails) != 0 {
		t.Errorf("orphaned user rows: %v", users.emails)
	}
	if len(users.deleted) != 1 {
		t.Errorf("deletes = %v, want exactly the rolled-back id", users.deleted)
	}
}

func TestUpdateReturns500WhenReFetchFails(t *testing.T) {
	profiles := &fakeProfiles{getErr: errors.New("connection reset")}
	h := NewProfileHandler(config.Config{}, newFakeUsers(), profiles)

	c, rec := profileCtx(http.MethodPut, "/v1/profiles/1",
		`{"first_name":"Ada","last_name":"Obi","department_id":2,"level":300}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `"id":0`) {
		t.Error("zero-valued profile leaked in response body")
	}
}

func TestUpdateUnknownProfile(t *testing.T) {
	profiles := &fakeProfiles{updateErr: sql.ErrNoRows}
	h := NewProfileHandler(config.Config{}, newFakeUsers(), profiles)

	c, rec := profileCtx(http.MethodPut, "/v1/profiles/9",
		`{"first_name":"Ada","last_name":"Obi","department_id":2,"level":300}`)
	c.SetParamNames("id")
	c.SetParamValues("9")
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
