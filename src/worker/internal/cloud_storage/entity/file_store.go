package cloudstorage

import (
	"context"

	"github.com/cockroachdb/errors"
)

var FileNotFoundMark = errors.New("file not found in cloud storage")

type FileStore interface {
	GetFile(ctx context.Context, fileURL string) ([]byte, error)
	WriteFile(ctx context.Context, fileURL string, contents []byte) error
}
