package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SyncLockKey guards the Airtable sync across every API instance.
const SyncLockKey = "jobmatch:sync:lock"

// Only the holder's token may release the lock.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a single-key mutex with a TTL so a crashed holder cannot block forever.
type Lock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewLock(client *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{client: client, key: key, ttl: ttl}
}

// TryLock takes the lock for token. It returns false when another holder has it.
func (l *Lock) TryLock(ctx context.Context, token string) (bool, error) {
	return l.client.SetNX(ctx, l.key, token, l.ttl).Result()
}

func (l *Lock) Unlock(ctx context.Context, token string) error {
	err := unlockScript.Run(ctx, l.client, []string{l.key}, token).Err()
	if err == redis.Nil {
		return nil
	}
	return err
}
