package qpp

import (
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis"
	"github.com/go-redis/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/qpp/internal/qpp/archive"
	"github.com/armadaproject/qpp/internal/qpp/configuration"
)

func TestCreateArchiveStore_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.json")
	config := &configuration.QppConfig{Archive: configuration.ArchiveConfig{Store: configuration.StoreFile, Path: path}}

	store, closer, err := CreateArchiveStore(config)
	require.NoError(t, err)
	defer closer.Close()

	fileStore, ok := store.(*archive.FileStore)
	require.True(t, ok)
	assert.Equal(t, path, fileStore.Path())
	assert.NoError(t, store.Check())
}

func TestCreateArchiveStore_Redis(t *testing.T) {
	db, err := miniredis.Run()
	require.NoError(t, err)
	defer db.Close()

	config := &configuration.QppConfig{
		Archive: configuration.ArchiveConfig{Store: configuration.StoreRedis, RedisKey: "qpp:test", RedisConnectAttempts: 1},
		Redis:   redis.UniversalOptions{Addrs: []string{db.Addr()}},
	}
	store, closer, err := CreateArchiveStore(config)
	require.NoError(t, err)
	defer closer.Close()

	_, err = store.Load()
	assert.ErrorIs(t, err, archive.ErrSnapshotNotFound)
	assert.NoError(t, store.Check())
}

func TestCreateArchiveStore_Unknown(t *testing.T) {
	config := &configuration.QppConfig{Archive: configuration.ArchiveConfig{Store: "s3"}}
	_, _, err := CreateArchiveStore(config)
	assert.EqualError(t, err, `unknown archive store "s3"`)
}
