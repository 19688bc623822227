package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCodeNotFound = errors.New("reset code not found or expired")
	ErrCodeMismatch = errors.New("reset code mismatch")
)

const (
	resetCodePrefix = "auth:reset:code"

	// ResetCodeTTL is how long an emailed reset code stays valid.
	ResetCodeTTL = 15 * time.Minute
)

// ResetCodeStore keeps password-reset codes in Redis with a TTL. Expiry is
// the only invalidation: a consumed code is deleted, an unconsumed one
// simply ages out.
type ResetCodeStore struct {
	Client *redis.Client
}

func (s *ResetCodeStore) Put(ctx context.Context, email, code string) error {
	key := fmt.Sprintf("%s:%s", resetCodePrefix, email)
	return s.Client.Set(ctx, key, code, ResetCodeTTL).Err()
}

// Consume verifies the code and deletes it so it cannot be replayed.
func (s *ResetCodeStore) Consume(ctx context.Context, email, code string) error {
	key := fmt.Sprintf("%s:%s", resetCodePrefix, email)
	stored, err := s.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeNotFound
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrCodeMismatch
	}
	return s.Client.Del(ctx, key).Err()
}
