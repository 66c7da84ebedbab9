package unmask

import (
	"context"
	"fmt"
	"time"

	platformredis "bigoffice/internal/platform/redis"
	id "bigoffice/pkg/domain"
)

// RedisCodeStore mirrors second-factor codes into Redis with a TTL matching
// the code's validity window. Expired keys vanish on their own, so a crashed
// instance cannot leave live codes behind.
type RedisCodeStore struct {
	client *platformredis.Client
}

func NewRedisCodeStore(client *platformredis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func codeKey(requestID id.UnmaskRequestID) string {
	return "unmask:code:" + requestID.String()
}

func (s *RedisCodeStore) Save(ctx context.Context, requestID id.UnmaskRequestID, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, codeKey(requestID), code, ttl).Err(); err != nil {
		return fmt.Errorf("save second-factor code: %w", err)
	}
	return nil
}

func (s *RedisCodeStore) Delete(ctx context.Context, requestID id.UnmaskRequestID) error {
	if err := s.client.Del(ctx, codeKey(requestID)).Err(); err != nil {
		return fmt.Errorf("delete second-factor code: %w", err)
	}
	return nil
}
