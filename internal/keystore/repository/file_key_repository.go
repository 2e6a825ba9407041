package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/secretstore/internal/errors"
	"github.com/allisson/secretstore/internal/keystore/domain"
)

const (
	keyFileExt = ".key"
	keyDirMode = 0o700
)

// fileRecord is the on-disk form of a key record.
type fileRecord struct {
	ID          uuid.UUID        `json:"id"`
	Alias       string           `json:"alias"`
	Algorithm   domain.Algorithm `json:"algorithm"`
	Purpose     domain.Purpose   `json:"purpose"`
	WrappedKey  []byte           `json:"wrapped_key"`
	Fingerprint string           `json:"fingerprint"`
	CreatedAt   time.Time        `json:"created_at"`
}

// FileKeyRepository stores each key record as <dir>/<alias>.key with mode 0600.
// Records are written to a temporary file and hard linked into place, so a
// record is either absent or complete and the first creator of an alias wins.
type FileKeyRepository struct {
	dir string
}

// NewFileKeyRepository creates a repository rooted at dir. The directory is
// created with mode 0700 on the first write; an existing directory open to
// group or others is narrowed to 0700 by Create and Ping.
func NewFileKeyRepository(dir string) *FileKeyRepository {
	return &FileKeyRepository{dir: dir}
}

func (f *FileKeyRepository) path(alias string) (string, error) {
	if err := domain.ValidateAlias(alias); err != nil {
		return "", err
	}
	return filepath.Join(f.dir, alias+keyFileExt), nil
}

// Create writes a new key record. A record with the same alias yields
// domain.ErrKeyAlreadyExists.
func (f *FileKeyRepository) Create(ctx context.Context, key *domain.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := f.path(key.Alias)
	if err != nil {
		return err
	}

	data, err := json.Marshal(fileRecord{
		ID:          key.ID,
		Alias:       key.Alias,
		Algorithm:   key.Algorithm,
		Purpose:     key.Purpose,
		WrappedKey:  key.WrappedKey,
		Fingerprint: key.Fingerprint,
		CreatedAt:   key.CreatedAt,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to encode key record")
	}

	if err := os.MkdirAll(f.dir, keyDirMode); err != nil {
		return apperrors.Wrap(err, "failed to create key directory")
	}
	if err := restrictDir(f.dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return apperrors.Wrap(err, "failed to create temporary key file")
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return apperrors.Wrap(err, "failed to write key file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return apperrors.Wrap(err, "failed to sync key file")
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(err, "failed to close key file")
	}

	if err := os.Link(tmpPath, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return domain.ErrKeyAlreadyExists
		}
		return apperrors.Wrap(err, "failed to store key file")
	}
	return nil
}

// GetByAlias reads the key record stored under alias.
func (f *FileKeyRepository) GetByAlias(ctx context.Context, alias string) (*domain.Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := f.path(alias)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to read key file")
	}

	var record fileRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode key file")
	}

	return &domain.Key{
		ID:          record.ID,
		Alias:       record.Alias,
		Algorithm:   record.Algorithm,
		Purpose:     record.Purpose,
		WrappedKey:  record.WrappedKey,
		Fingerprint: record.Fingerprint,
		CreatedAt:   record.CreatedAt,
	}, nil
}

// Delete removes the key record stored under alias. Nothing to delete yields
// domain.ErrKeyNotFound.
func (f *FileKeyRepository) Delete(ctx context.Context, alias string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := f.path(alias)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrKeyNotFound
		}
		return apperrors.Wrap(err, "failed to delete key file")
	}
	return nil
}

// Ping checks that the key directory is usable and owner-only. A directory
// that does not exist yet is fine; it is created on the first write.
func (f *FileKeyRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(f.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperrors.Wrap(err, "failed to stat key directory")
	}
	if !info.IsDir() {
		return apperrors.New("key store path is not a directory")
	}
	return restrictDir(f.dir)
}

// restrictDir removes group and other permissions from dir.
func restrictDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return apperrors.Wrap(err, "failed to stat key directory")
	}
	if info.Mode().Perm()&0o077 == 0 {
		return nil
	}
	if err := os.Chmod(dir, keyDirMode); err != nil {
		return apperrors.Wrap(err, "failed to restrict key directory permissions")
	}
	return nil
}
