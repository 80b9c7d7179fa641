package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Enrollment links a student profile to a course. The (profile_id,
// course_id) pair is unique, so re-enrolling surfaces as ErrConflict.
type Enrollment struct {
	ID         uint64    `json:"id"`
	ProfileID  uint64    `json:"profile_id"`
	CourseID   uint64    `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

type EnrollmentRepo struct{ db *sql.DB }

func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

// Create inserts an enrollment and populates ID and EnrolledAt.
func (r *EnrollmentRepo) Create(ctx context.Context, e *Enrollment) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO enrollments (profile_id, course_id) VALUES (?, ?)",
		e.ProfileID, e.CourseID)
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
	e.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT enrolled_at FROM enrollments WHERE id = ?", e.ID).Scan(&e.EnrolledAt)
}

// ListByCourse returns the enrollments for a course, newest first.
func (r *EnrollmentRepo) ListByCourse(ctx context.Context, courseID uint64) ([]*Enrollment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, profile_id, course_id, enrolled_at FROM enrollments WHERE course_id = ? ORDER BY enrolled_at DESC",
		courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Enrollment
	for rows.Next() {
		e := new(Enrollment)
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.CourseID, &e.EnrolledAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListByProfile returns the enrollments for a student profile.
func (r *EnrollmentRepo) ListByProfile(ctx context.Context, profileID uint64) ([]*Enrollment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, profile_id, course_id, enrolled_at FROM enrollments WHERE profile_id = ? ORDER BY enrolled_at DESC",
		profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Enrollment
	for rows.Next() {
		e := new(Enrollment)
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.CourseID, &e.EnrolledAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes a single enrollment.
func (r *EnrollmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM enrollments WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
