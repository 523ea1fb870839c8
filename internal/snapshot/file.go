package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/logger"
)

// FileStore keeps one file per snapshot name beneath Dir.
type FileStore struct {
	dir      string
	compress bool
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string, compress bool) (*FileStore, error) {
	if err := os.MkdirAll(dir, DirPermission); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileStore{dir: dir, compress: compress}, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(name string) string {
	if s.compress {
		name += CompressedSuffix
	}
	return filepath.Join(s.dir, filepath.Base(name))
}

// Load reads and, when enabled, decompresses the named snapshot.
func (s *FileStore) Load(_ context.Context, name string) ([]byte, error) {
	raw, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}
	if !s.compress {
		return raw, nil
	}

	dec, err := zstd.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to open zstd reader for %s: %w", name, err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot %s: %w", name, err)
	}
	return data, nil
}

// Save writes the snapshot to a temp file in the same directory and renames
// it over the previous version, so a crash never leaves a half-written file.
func (s *FileStore) Save(ctx context.Context, name string, data []byte) error {
	f, err := os.CreateTemp(s.dir, tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := s.write(f, data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write snapshot %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync snapshot %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot %s: %w", name, err)
	}
	if err := os.Chmod(tmp, FilePermission); err != nil {
		return fmt.Errorf("failed to chmod snapshot %s: %w", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		return fmt.Errorf("failed to replace snapshot %s: %w", name, err)
	}

	logger.FromContext(ctx).Debug(LogMsgSnapshotSaved, "name", name, "bytes", len(data), "compressed", s.compress)
	return nil
}

func (s *FileStore) write(w io.Writer, data []byte) error {
	if !s.compress {
		_, err := w.Write(data)
		return err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Delete removes the named snapshot. Deleting a missing snapshot is not an error.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot %s: %w", name, err)
	}
	logger.FromContext(ctx).Info(LogMsgSnapshotDeleted, "name", name)
	return nil
}

// List returns every snapshot under Dir sorted by name.
func (s *FileStore) List(_ context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()
		if s.compress {
			if !strings.HasSuffix(name, CompressedSuffix) {
				continue
			}
			name = strings.TrimSuffix(name, CompressedSuffix)
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{Name: name, Size: fi.Size(), SavedAt: fi.ModTime().Unix()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Close is a no-op for files.
func (s *FileStore) Close() error { return nil }
