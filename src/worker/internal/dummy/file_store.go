package dummy

import (
	"context"
	"sync"

	"github.com/veedubyou/stem-separator/src/shared/lib/errors/mark"
	cloudstorage "github.com/veedubyou/stem-separator/src/worker/internal/cloud_storage/entity"
)

var _ cloudstorage.FileStore = &FileStore{}

func NewDummyFileStore() *FileStore {
	return &FileStore{
		Unavailable: false,
		Files:       make(map[string][]byte),
	}
}

type FileStore struct {
	Unavailable bool
	Files       map[string][]byte
	mutex       sync.RWMutex
}

func (f *FileStore) GetFile(_ context.Context, fileURL string) ([]byte, error) {
	if f.Unavailable {
		return nil, NetworkFailure
	}

	f.mutex.RLock()
	defer f.mutex.RUnlock()

	contents, ok := f.Files[fileURL]
	if !ok {
		return nil, mark.Wrap(NotFound, cloudstorage.FileNotFoundMark, "No file at URL")
	}

	return contents, nil
}

func (f *FileStore) WriteFile(_ context.Context, fileURL string, contents []byte) error {
	if f.Unavailable {
		return NetworkFailure
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.Files[fileURL] = contents
	return nil
}
