package archive

import (
	"time"

	"github.com/avast/retry-go"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

const DefaultRedisKey = "qpp:archive"

// RedisStore keeps the snapshot as a single value, so several replicas can share one archive history.
type RedisStore struct {
	db    redis.UniversalClient
	key   string
	codec Codec
}

func NewRedisStore(db redis.UniversalClient, key string, codec Codec) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{db: db, key: key, codec: codec}
}

// WaitForRedis pings db until it responds or attempts are exhausted.
func WaitForRedis(db redis.UniversalClient, attempts uint, delay time.Duration) error {
	return retry.Do(
		func() error {
			return db.Ping().Err()
		},
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
	)
}

func (s *RedisStore) Load() (*Snapshot, error) {
	data, err := s.db.Get(s.key).Bytes()
	if err == redis.Nil {
		return nil, ErrSnapshotNotFound
	} else if err != nil {
		return nil, errors.Wrapf(err, "reading %s from redis", s.key)
	}
	return s.codec.Decode(data)
}

func (s *RedisStore) Save(snap *Snapshot) error {
	data, err := s.codec.Encode(snap)
	if err != nil {
		return err
	}
	if err := s.db.Set(s.key, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "writing %s to redis", s.key)
	}
	return nil
}

func (s *RedisStore) Check() error {
	return s.db.Ping().Err()
}
