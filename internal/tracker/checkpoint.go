package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const checkpointKeyPrefix = "attendance:timer:"

// Checkpoint is the advisory resume hint written on a 30s cadence. The
// session's absolute start time stays the source of truth; the checkpoint
// only lets a restarted process report continuity immediately.
type Checkpoint struct {
	StartTime  time.Time `json:"start_time"`
	LastUpdate time.Time `json:"last_update"`
}

type CheckpointStore interface {
	Save(ctx context.Context, employeeID string, cp Checkpoint) error
	Load(ctx context.Context, employeeID string) (*Checkpoint, error)
	Clear(ctx context.Context, employeeID string) error
}

type redisCheckpointStore struct {
	rdb *redis.Client
}

func NewCheckpointStore(rdb *redis.Client) CheckpointStore {
	return &redisCheckpointStore{rdb: rdb}
}

func checkpointKey(employeeID string) string {
	return checkpointKeyPrefix + employeeID
}

func (s *redisCheckpointStore) Save(ctx context.Context, employeeID string, cp Checkpoint) error {
	payload, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, checkpointKey(employeeID), payload, 24*time.Hour).Err()
}

func (s *redisCheckpointStore) Load(ctx context.Context, employeeID string) (*Checkpoint, error) {
	val, err := s.rdb.Get(ctx, checkpointKey(employeeID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cp Checkpoint
	if err := json.Unmarshal([]byte(val), &cp); err != nil {
		// Advisory data only; unreadable means absent
		_ = s.rdb.Del(ctx, checkpointKey(employeeID)).Err()
		return nil, nil
	}
	return &cp, nil
}

func (s *redisCheckpointStore) Clear(ctx context.Context, employeeID string) error {
	return s.rdb.Del(ctx, checkpointKey(employeeID)).Err()
}
