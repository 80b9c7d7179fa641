package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Department represents an academic department. Code is a short unique
// identifier such as "CSC" or "MTH".
type Department struct {
	ID   uint64 `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ErrDepartmentNotFound is returned when a department cannot be found.
var ErrDepartmentNotFound = errors.New("department not found")

// DepartmentRepo encapsulates queries on the departments table.
type DepartmentRepo struct{ db *sql.DB }

func NewDepartmentRepo(db *sql.DB) *DepartmentRepo { return &DepartmentRepo{db: db} }

// Create inserts a department and populates its ID.
func (r *DepartmentRepo) Create(ctx context.Context, d *Department) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO departments (code, name) VALUES (?, ?)", d.Code, d.Name)
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
	d.ID = uint64(id)
	return nil
}

// GetByID fetches a department by id.
func (r *DepartmentRepo) GetByID(ctx context.Context, id uint64) (*Department, error) {
	var d Department
	err := r.db.QueryRowContext(ctx,
		"SELECT id, code, name FROM departments WHERE id = ?", id).
		Scan(&d.ID, &d.Code, &d.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns all departments ordered by code.
func (r *DepartmentRepo) List(ctx context.Context) ([]*Department, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, code, name FROM departments ORDER BY code")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Department
	for rows.Next() {
		d := new(Department)
		if err := rows.Scan(&d.ID, &d.Code, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update renames a department. Returns sql.ErrNoRows when no row matched.
func (r *DepartmentRepo) Update(ctx context.Context, id uint64, code, name string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE departments SET code = ?, name = ? WHERE id = ?", code, name, id)
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

// Delete removes a department unless courses or lecturers still reference
// it, in which case ErrConflict is returned.
func (r *DepartmentRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM courses WHERE department_id = ?) +
		        (SELECT COUNT(*) FROM lecturers WHERE department_id = ?)`,
		id, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM departments WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
