package repository

import (
	"context"
	"fmt"
	"time"

	"golang-finance-insight/pkg/common"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReleaseFunc frees a lock taken by SubjectLocker.
type ReleaseFunc func(ctx context.Context) error

// SubjectLocker guarantees at most one run per subject across executor instances.
type SubjectLocker interface {
	Acquire(ctx context.Context, subjectID uint, ttl time.Duration) (ReleaseFunc, bool, error)
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisSubjectLocker struct {
	client *redis.Client
}

func NewRedisSubjectLocker(client *redis.Client) SubjectLocker {
	return &redisSubjectLocker{client: client}
}

func (l *redisSubjectLocker) Acquire(ctx context.Context, subjectID uint, ttl time.Duration) (ReleaseFunc, bool, error) {
	key := fmt.Sprintf(common.RedisKeySubjectLock, subjectID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, true, nil
}
