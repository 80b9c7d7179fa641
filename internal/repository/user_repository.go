package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/minafarid/academic-records-api/internal/utils"
)

// Closed set of roles. Role values are stored verbatim in users.role and
// compared by set membership only; there is no hierarchy among them.
const (
	RoleStudent = "STUDENT"
	RoleFaculty = "FACULTY"
	RoleAdmin   = "ADMIN"
	RoleGuest   = "GUEST"
)

// ValidRole reports whether s is a member of the role enumeration.
func ValidRole(s string) bool {
	switch s {
	case RoleStudent, RoleFaculty, RoleAdmin, RoleGuest:
		return true
	}
	return false
}

// User mirrors the 'users' table: the single identity record consumed by the
// auth core. RefreshTokenHash holds the SHA-256 of the most recently issued
// refresh token; NULL means no active session. It is never serialized
// outward; handlers build their own response types.
type User struct {
	ID               uint64
	Email            string
	PasswordHash     string
	Role             string
	RefreshTokenHash sql.NullString
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UserRepo is the credential store gateway.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a freshly hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Delete removes an identity record. Registration uses it to roll back the
// user row when the linked profile cannot be created.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByEmail fetches a user by normalized email. The refresh hash is not
// projected; sign-in does not need it.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role)
	return u, err
}

// GetByID fetches a user by id, without the refresh hash.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role)
	return u, err
}

// RoleByID projects only the current role of an identity. The authorization
// gate calls this on every request instead of trusting the role baked into
// the token, so role changes land before the token expires.
func (r *UserRepo) RoleByID(ctx context.Context, id uint64) (string, error) {
	var role string
	err := r.DB.QueryRowContext(ctx,
		"SELECT role FROM users WHERE id=? LIMIT 1", id).Scan(&role)
	return role, err
}

// RefreshHashByID returns the stored refresh-token hash for an identity.
// This projection stays inside the auth core; it is the revocation check
// for presented refresh tokens.
func (r *UserRepo) RefreshHashByID(ctx context.Context, id uint64) (sql.NullString, error) {
	var h sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT refresh_token_hash FROM users WHERE id=? LIMIT 1", id).Scan(&h)
	return h, err
}

// UpdateRefreshTokenHash overwrites the stored refresh-token hash for an
// identity; nil clears it. A single-row UPDATE is the only synchronization:
// concurrent sign-ins race and the last write owns the live session.
// Affected rows are deliberately not checked: MySQL reports zero when the
// value is unchanged, which must still count as success (idempotent
// sign-out).
func (r *UserRepo) UpdateRefreshTokenHash(ctx context.Context, id uint64, hash *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		hash, id)
	return err
}
