// Package file stores each identity's snapshot as one JSON document
// named <identity>_transactions.json inside a data directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"finledger/internal/core"
	"finledger/internal/log"
	"finledger/internal/storage"
)

const fileSuffix = "_transactions.json"

type Store struct {
	dir    string
	logger *log.Logger
}

var _ storage.Store = (*Store)(nil)

// New returns a store rooted at dir. The directory is created on first save.
func New(dir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{dir: dir, logger: logger.WithComponent(log.ComponentStorage)}
}

// Path is the snapshot file for identity.
func (s *Store) Path(identity string) string {
	return filepath.Join(s.dir, identity+fileSuffix)
}

func (s *Store) Load(ctx context.Context, identity string) (core.Snapshot, error) {
	if err := storage.ValidateIdentity(identity); err != nil {
		return core.Snapshot{}, err
	}
	path := s.Path(identity)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Snapshot{}, fmt.Errorf("%s: %w", path, storage.ErrNotFound)
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: read %s: %v", core.ErrPersistence, path, err)
	}

	snap, err := storage.DecodeSnapshot(data)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	s.logger.DebugContext(ctx, "Snapshot loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldIdentity, identity,
		log.FieldPath, path,
		log.FieldCount, snap.Len())
	return snap, nil
}

// Save writes the snapshot to a temporary file in the same directory,
// syncs it, then renames it over the previous snapshot.
func (s *Store) Save(ctx context.Context, identity string, snap core.Snapshot) error {
	if err := storage.ValidateIdentity(identity); err != nil {
		return err
	}
	data, err := storage.EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrPersistence, err)
	}
	path := s.Path(identity)
	if err := WriteAtomic(path, data); err != nil {
		s.logger.ErrorContext(ctx, "Snapshot save failed",
			log.FieldOperation, log.OpSave,
			log.FieldIdentity, identity,
			log.FieldPath, path,
			log.FieldError, err)
		return fmt.Errorf("%w: %v", core.ErrPersistence, err)
	}
	s.logger.DebugContext(ctx, "Snapshot saved",
		log.FieldOperation, log.OpSave,
		log.FieldIdentity, identity,
		log.FieldPath, path,
		log.FieldCount, snap.Len())
	return nil
}

// WriteAtomic replaces path with data, creating parent directories as needed.
// Readers see either the old content or the new, never a partial write.
func WriteAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
