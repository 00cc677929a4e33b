package filestore

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
	"github.com/veedubyou/stem-separator/src/shared/lib/errors/mark"
	cloudstorage "github.com/veedubyou/stem-separator/src/worker/internal/cloud_storage/entity"
	"google.golang.org/api/option"
)

var _ cloudstorage.FileStore = GoogleFileStore{}

func NewGoogleFileStore(storageHost string, options ...option.ClientOption) (GoogleFileStore, error) {
	client, err := storage.NewClient(context.Background(), options...)
	if err != nil {
		return GoogleFileStore{}, cerr.Wrap(err).Error("Failed to create google storage client")
	}

	return NewGoogleFileStoreFromClient(storageHost, client), nil
}

func NewGoogleFileStoreFromClient(storageHost string, client *storage.Client) GoogleFileStore {
	return GoogleFileStore{
		storageHost: strings.TrimSuffix(storageHost, "/"),
		client:      client,
	}
}

// GoogleFileStore addresses objects by URL: {storageHost}/{bucket}/{object}
type GoogleFileStore struct {
	storageHost string
	client      *storage.Client
}

func (g GoogleFileStore) GetFile(ctx context.Context, fileURL string) ([]byte, error) {
	bucket, object, err := g.splitURL(fileURL)
	if err != nil {
		return nil, err
	}

	errctx := cerr.Field("bucket", bucket).Field("object", object)

	reader, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, errctx.Wrap(mark.Wrap(err, cloudstorage.FileNotFoundMark, "No such object")).
				Error("Failed to open object for reading")
		}

		return nil, errctx.Wrap(err).Error("Failed to open object for reading")
	}
	defer reader.Close()

	contents, err := io.ReadAll(reader)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to read object contents")
	}

	return contents, nil
}

func (g GoogleFileStore) WriteFile(ctx context.Context, fileURL string, contents []byte) error {
	bucket, object, err := g.splitURL(fileURL)
	if err != nil {
		return err
	}

	errctx := cerr.Field("bucket", bucket).Field("object", object)

	writer := g.client.Bucket(bucket).Object(object).NewWriter(ctx)
	if _, err := writer.Write(contents); err != nil {
		_ = writer.Close()
		return errctx.Wrap(err).Error("Failed to write object contents")
	}

	if err := writer.Close(); err != nil {
		return errctx.Wrap(err).Error("Failed to finalize object upload")
	}

	return nil
}

func (g GoogleFileStore) splitURL(fileURL string) (string, string, error) {
	errctx := cerr.Field("file_url", fileURL).Field("storage_host", g.storageHost)

	prefix := g.storageHost + "/"
	if !strings.HasPrefix(fileURL, prefix) {
		return "", "", errctx.Error("URL does not belong to this storage host")
	}

	path := strings.TrimPrefix(fileURL, prefix)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errctx.Error("URL must name both a bucket and an object")
	}

	return parts[0], parts[1], nil
}
