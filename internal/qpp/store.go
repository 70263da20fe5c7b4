package qpp

import (
	"io"
	"time"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/qpp/internal/qpp/archive"
	"github.com/armadaproject/qpp/internal/qpp/configuration"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// CreateArchiveStore returns the snapshot store named by config, plus whatever must be closed once it is no
// longer needed.
func CreateArchiveStore(config *configuration.QppConfig) (archive.Store, io.Closer, error) {
	codec := config.Archive.SnapshotCodec()
	switch config.Archive.Store {
	case configuration.StoreFile, "":
		store := archive.NewFileStore(config.Archive.Path, codec)
		log.Infof("archive snapshots are kept in %s", store.Path())
		return store, nopCloser{}, nil
	case configuration.StoreRedis:
		db := redis.NewUniversalClient(&config.Redis)
		if err := archive.WaitForRedis(db, config.Archive.RedisConnectAttempts, time.Second); err != nil {
			_ = db.Close()
			return nil, nil, errors.Wrap(err, "connecting to redis")
		}
		return archive.NewRedisStore(db, config.Archive.RedisKey, codec), db, nil
	default:
		return nil, nil, errors.Errorf("unknown archive store %q", config.Archive.Store)
	}
}
