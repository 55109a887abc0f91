package source

import (
	"context"
	"errors"

	"github.com/insightdelivered/order-scanner/internal/models"
)

var (
	// ErrNotFound is returned by Fetch for a document that no longer exists.
	ErrNotFound = errors.New("document not found")
	// ErrEmptyFolder is returned by List when the folder holds no PDFs.
	ErrEmptyFolder = errors.New("no pdf documents in folder")
)

// Source lists the documents of a folder and fetches their bytes.
type Source interface {
	List(ctx context.Context, folder string) ([]models.Document, error)
	Fetch(ctx context.Context, doc models.Document) ([]byte, error)
}
