package archive

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrSnapshotNotFound is returned by Store.Load when nothing has been persisted yet.
var ErrSnapshotNotFound = errors.New("archive snapshot not found")

// Store persists whole archive snapshots.
type Store interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
	// Check reports whether the backing storage is reachable.
	Check() error
}

// FileStore keeps the snapshot in a single file. Saves write a sibling temporary file and rename it
// over the target so a crashed write never leaves a truncated snapshot behind.
type FileStore struct {
	path  string
	codec Codec
}

func NewFileStore(path string, codec Codec) *FileStore {
	return &FileStore{path: path, codec: codec}
}

func (s *FileStore) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.path)
	}
	return s.codec.Decode(data)
}

func (s *FileStore) Save(snap *Snapshot) error {
	data, err := s.codec.Encode(snap)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "creating temporary snapshot in %s", dir)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "writing %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "closing %s", tmpName)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "replacing %s", s.path)
	}
	return nil
}

// Check verifies that the snapshot directory exists.
func (s *FileStore) Check() error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "snapshot directory %s", dir)
	}
	if !info.IsDir() {
		return errors.Errorf("snapshot directory %s is not a directory", dir)
	}
	return nil
}

func (s *FileStore) Path() string {
	return s.path
}
