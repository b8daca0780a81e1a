package employee

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aakifsaf/precision-attendance/internal/middleware"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const directoryKeyPrefix = "directory:employee:"

// Directory resolves forwarded employee ids for the identity middleware.
// Lookups sit on the hot path of every request, so resolved identities
// are cached briefly in redis.
type Directory struct {
	repo   Repository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewDirectory(repo Repository, rdb *redis.Client) *Directory {
	return &Directory{
		repo:   repo,
		rdb:    rdb,
		logger: zap.L().Named("employee.directory"),
	}
}

func (d *Directory) Resolve(ctx context.Context, employeeID string) (middleware.Identity, error) {
	cacheKey := directoryKeyPrefix + employeeID

	if d.rdb != nil {
		if cached, err := d.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var ident middleware.Identity
			if json.Unmarshal([]byte(cached), &ident) == nil && ident.ID != "" {
				return ident, nil
			}
		}
	}

	empl, err := d.repo.FindByID(ctx, employeeID)
	if err != nil {
		return middleware.Identity{}, mapRepositoryError(err)
	}

	ident := middleware.Identity{
		ID:   empl.ID.String(),
		Name: empl.FullName,
		Role: empl.Role,
	}

	if d.rdb != nil {
		if payload, err := json.Marshal(ident); err == nil {
			if err := d.rdb.Set(ctx, cacheKey, payload, 5*time.Minute).Err(); err != nil {
				d.logger.Warn("cache identity failed", zap.String("employee_id", employeeID), zap.Error(err))
			}
		}
	}

	return ident, nil
}

// Evict drops a cached identity, called after role or profile updates.
func (d *Directory) Evict(ctx context.Context, employeeID string) {
	if d.rdb == nil {
		return
	}
	_ = d.rdb.Del(ctx, directoryKeyPrefix+employeeID).Err()
}
