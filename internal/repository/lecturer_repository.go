package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Lecturer represents a teaching staff record attached to a department.
type Lecturer struct {
	ID           uint64 `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	DepartmentID uint64 `json:"department_id"`
}

// ErrLecturerNotFound is returned when a lecturer cannot be found.
var ErrLecturerNotFound = errors.New("lecturer not found")

type LecturerRepo struct{ db *sql.DB }

func NewLecturerRepo(db *sql.DB) *LecturerRepo { return &LecturerRepo{db: db} }

// Create inserts a lecturer and populates its ID.
func (r *LecturerRepo) Create(ctx context.Context, l *Lecturer) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO lecturers (first_name, last_name, email, department_id) VALUES (?, ?, ?, ?)",
		l.FirstName, l.LastName, strings.ToLower(l.Email), l.DepartmentID)
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
	l.ID = uint64(id)
	return nil
}

// GetByID fetches a lecturer by id.
func (r *LecturerRepo) GetByID(ctx context.Context, id uint64) (*Lecturer, error) {
	var l Lecturer
	err := r.db.QueryRowContext(ctx,
		"SELECT id, first_name, last_name, email, department_id FROM lecturers WHERE id = ?",
		id).Scan(&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.DepartmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLecturerNotFound
		}
		return nil, err
	}
	return &l, nil
}

// List returns lecturers, optionally filtered by department.
func (r *LecturerRepo) List(ctx context.Context, departmentID uint64) ([]*Lecturer, error) {
	q := "SELECT id, first_name, last_name, email, department_id FROM lecturers"
	args := []any{}
	if departmentID != 0 {
		q += " WHERE department_id = ?"
		args = append(args, departmentID)
	}
	q += " ORDER BY last_name, first_name"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Lecturer
	for rows.Next() {
		l := new(Lecturer)
		if err := rows.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.DepartmentID); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a lecturer.
func (r *LecturerRepo) Update(ctx context.Context, l *Lecturer) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE lecturers SET first_name = ?, last_name = ?, email = ?, department_id = ? WHERE id = ?",
		l.FirstName, l.LastName, strings.ToLower(l.Email), l.DepartmentID, l.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a lecturer unless courses still reference them.
func (r *LecturerRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM courses WHERE lecturer_id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM lecturers WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
