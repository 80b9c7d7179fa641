package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedRoleSource puts a short-lived Redis cache in front of the per-request
// role lookup. The TTL is bounded by configuration below the access-token
// lifetime, so a role change is still visible before any token outlives it.
// Redis failures fall through to the underlying source; only positive
// lookups are cached.
type CachedRoleSource struct {
	Next RoleSource
	RDB  *redis.Client
	TTL  time.Duration
}

func roleCacheKey(id uint64) string { return fmt.Sprintf("role:%d", id) }

func (s *CachedRoleSource) RoleByID(ctx context.Context, id uint64) (string, error) {
	if s.RDB != nil && s.TTL > 0 {
		if role, err := s.RDB.Get(ctx, roleCacheKey(id)).Result(); err == nil && role != "" {
			return role, nil
		}
	}
	role, err := s.Next.RoleByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s.RDB != nil && s.TTL > 0 {
		_ = s.RDB.SetEx(ctx, roleCacheKey(id), role, s.TTL).Err()
	}
	return role, nil
}
