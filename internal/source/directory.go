package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/insightdelivered/order-scanner/internal/models"
)

// Directory serves PDFs from the local file system. Document IDs are
// absolute paths.
type Directory struct {
	SkipHidden bool

	logger *zap.Logger
}

// NewDirectory returns a Directory source. A nil logger disables logging.
func NewDirectory(skipHidden bool, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{SkipHidden: skipHidden, logger: logger}
}

// List walks folder recursively and returns its PDFs sorted by ID.
func (d *Directory) List(ctx context.Context, folder string) ([]models.Document, error) {
	if strings.TrimSpace(folder) == "" {
		return nil, errors.New("folder is required")
	}
	root, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("resolve folder: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", folder)
	}

	var docs []models.Document
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			d.logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(walkErr))
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path != root && d.SkipHidden && isHidden(path) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}

		var size int64
		if fi, err := entry.Info(); err == nil {
			size = fi.Size()
		}
		docs = append(docs, models.Document{
			ID:   path,
			Name: entry.Name(),
			Size: size,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrEmptyFolder
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Fetch reads the bytes of a document returned by List.
func (d *Directory) Fetch(ctx context.Context, doc models.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !filepath.IsAbs(doc.ID) {
		return nil, fmt.Errorf("document id %q is not an absolute path", doc.ID)
	}

	data, err := os.ReadFile(doc.ID)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", doc.ID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", doc.ID, err)
	}
	return data, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
