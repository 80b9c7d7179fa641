package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Profile is a student's academic record, linked one-to-one with the
// identity that signs in. MatricNo is the registry-issued student number.
type Profile struct {
	ID           uint64 `json:"id"`
	UserID       uint64 `json:"user_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	MatricNo     string `json:"matric_no"`
	DepartmentID uint64 `json:"department_id"`
	Level        uint16 `json:"level"`
}

// ErrProfileNotFound is returned when a profile cannot be found.
var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct{ db *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

// Create inserts a profile and populates its ID.
func (r *ProfileRepo) Create(ctx context.Context, p *Profile) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO profiles (user_id, first_name, last_name, matric_no, department_id, level) VALUES (?, ?, ?, ?, ?, ?)",
		p.UserID, p.FirstName, p.LastName, strings.ToUpper(p.MatricNo), p.DepartmentID, p.Level)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a profile by id.
func (r *ProfileRepo) GetByID(ctx context.Context, id uint64) (*Profile, error) {
	var p Profile
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, first_name, last_name, matric_no, department_id, level FROM profiles WHERE id = ?",
		id).Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.MatricNo, &p.DepartmentID, &p.Level)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByUserID fetches the profile owned by an identity.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uint64) (*Profile, error) {
	var p Profile
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, first_name, last_name, matric_no, department_id, level FROM profiles WHERE user_id = ?",
		userID).Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.MatricNo, &p.DepartmentID, &p.Level)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all profiles ordered by matric number.
func (r *ProfileRepo) List(ctx context.Context) ([]*Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, first_name, last_name, matric_no, department_id, level FROM profiles ORDER BY matric_no")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Profile
	for rows.Next() {
		p := new(Profile)
		if err := rows.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.MatricNo, &p.DepartmentID, &p.Level); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a profile (names, department,
// level). Matric number and owning identity are immutable.
func (r *ProfileRepo) Update(ctx context.Context, p *Profile) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE profiles SET first_name = ?, last_name = ?, department_id = ?, level = ? WHERE id = ?",
		p.FirstName, p.LastName, p.DepartmentID, p.Level, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
