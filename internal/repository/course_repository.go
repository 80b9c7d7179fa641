package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Course represents a taught course. LecturerID is nullable at the schema
// level (a course may be unassigned between semesters) and surfaces as 0.
type Course struct {
	ID           uint64 `json:"id"`
	Code         string `json:"code"`
	Title        string `json:"title"`
	Credits      uint8  `json:"credits"`
	DepartmentID uint64 `json:"department_id"`
	LecturerID   uint64 `json:"lecturer_id,omitempty"`
}

// ErrCourseNotFound is returned when a course cannot be found.
var ErrCourseNotFound = errors.New("course not found")

type CourseRepo struct{ db *sql.DB }

func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{db: db} }

func scanCourse(row interface{ Scan(...any) error }) (*Course, error) {
	var c Course
	var lect sql.NullInt64
	if err := row.Scan(&c.ID, &c.Code, &c.Title, &c.Credits, &c.DepartmentID, &lect); err != nil {
		return nil, err
	}
	if lect.Valid {
		c.LecturerID = uint64(lect.Int64)
	}
	return &c, nil
}

// Create inserts a course and populates its ID.
func (r *CourseRepo) Create(ctx context.Context, c *Course) error {
	var lect any
	if c.LecturerID != 0 {
		lect = c.LecturerID
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO courses (code, title, credits, department_id, lecturer_id) VALUES (?, ?, ?, ?, ?)",
		strings.ToUpper(c.Code), c.Title, c.Credits, c.DepartmentID, lect)
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
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a course by id.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (*Course, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, code, title, credits, department_id, lecturer_id FROM courses WHERE id = ?", id)
	c, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns courses, optionally filtered by department.
func (r *CourseRepo) List(ctx context.Context, departmentID uint64) ([]*Course, error) {
	q := "SELECT id, code, title, credits, department_id, lecturer_id FROM courses"
	args := []any{}
	if departmentID != 0 {
		q += " WHERE department_id = ?"
		args = append(args, departmentID)
	}
	q += " ORDER BY code"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a course.
func (r *CourseRepo) Update(ctx context.Context, c *Course) error {
	var lect any
	if c.LecturerID != 0 {
		lect = c.LecturerID
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE courses SET code = ?, title = ?, credits = ?, department_id = ?, lecturer_id = ? WHERE id = ?",
		strings.ToUpper(c.Code), c.Title, c.Credits, c.DepartmentID, lect, c.ID)
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

// Delete removes a course and its enrollments in one transaction.
func (r *CourseRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DELETE FROM enrollments WHERE course_id = ?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = sql.ErrNoRows
	}
	return err
}
