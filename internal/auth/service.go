package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/minafarid/academic-records-api/internal/repository"
	"github.com/minafarid/academic-records-api/internal/utils"
)

// CredentialStore is the slice of the user repository the session service
// needs. *repository.UserRepo satisfies it; tests use an in-memory fake.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uint64) (repository.User, error)
	RefreshHashByID(ctx context.Context, id uint64) (sql.NullString, error)
	UpdateRefreshTokenHash(ctx context.Context, id uint64, hash *string) error
}

// Service orchestrates sign-in, sign-out and refresh. Every successful
// sign-in or refresh leaves exactly one valid stored refresh-token hash;
// concurrent sessions for the same identity race on that single row and the
// last write owns the live session.
type Service struct {
	Store  CredentialStore
	Issuer utils.Issuer
}

func NewService(store CredentialStore, issuer utils.Issuer) *Service {
	return &Service{Store: store, Issuer: issuer}
}

// SignIn verifies the credentials, issues a fresh token pair and persists
// the hash of the new refresh token, replacing any prior one.
func (s *Service) SignIn(ctx context.Context, email, password string) (utils.TokenPair, error) {
	u, err := s.Store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.TokenPair{}, ErrInvalidCredentials
		}
		return utils.TokenPair{}, ErrUnavailable
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return utils.TokenPair{}, ErrInvalidCredentials
	}
	return s.issueAndStore(ctx, u)
}

// SignOut clears the stored refresh-token hash. Unknown identities get
// ErrNotFound; signing out an identity with no live session is a no-op
// success.
func (s *Service) SignOut(ctx context.Context, id uint64) error {
	if _, err := s.Store.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return ErrUnavailable
	}
	if err := s.Store.UpdateRefreshTokenHash(ctx, id, nil); err != nil {
		return ErrUnavailable
	}
	return nil
}

// Refresh rotates the session. The caller has already verified the token's
// signature and expiry against the refresh secret; this re-verifies that the
// raw token hashes to the stored value (the revocation check that makes a
// superseded-but-unexpired token unusable), then issues a brand-new pair and
// overwrites the hash, spending the presented token permanently.
func (s *Service) Refresh(ctx context.Context, id uint64, rawRefresh string) (utils.TokenPair, error) {
	stored, err := s.Store.RefreshHashByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.TokenPair{}, ErrNotFound
		}
		return utils.TokenPair{}, ErrUnavailable
	}
	if !stored.Valid {
		return utils.TokenPair{}, ErrNotFound
	}
	if utils.HashRefreshRaw(rawRefresh) != stored.String {
		return utils.TokenPair{}, ErrInvalidToken
	}
	u, err := s.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.TokenPair{}, ErrNotFound
		}
		return utils.TokenPair{}, ErrUnavailable
	}
	return s.issueAndStore(ctx, u)
}

func (s *Service) issueAndStore(ctx context.Context, u repository.User) (utils.TokenPair, error) {
	pair, err := s.Issuer.IssuePair(u.ID, u.Email, u.Role)
	if err != nil {
		return utils.TokenPair{}, err
	}
	hash := utils.HashRefreshRaw(pair.RefreshToken)
	if err := s.Store.UpdateRefreshTokenHash(ctx, u.ID, &hash); err != nil {
		return utils.TokenPair{}, ErrUnavailable
	}
	return pair, nil
}
