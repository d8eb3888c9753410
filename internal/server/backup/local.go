package backup

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/filex"
)

// LocalStorage writes backups into a directory on the server's filesystem.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir}
}

// Save replaces <dir>/<name> atomically, so a reader never sees a partial
// backup.
func (s *LocalStorage) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: invalid backup name %q", common.ErrStorage, name)
	}

	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	path := filepath.Join(dir, name)
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	return path, nil
}
