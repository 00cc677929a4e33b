package config

import "google.golang.org/api/option"

// CloudStorage decides whether stems are uploaded, and where to
type CloudStorage interface {
	Enabled() bool
	GetStorageHost() string
	GetBucket() string
	ClientOptions() []option.ClientOption
}

var _ CloudStorage = ProdCloudStorage{}

type ProdCloudStorage struct {
	StorageHost string
	// SecretKey is the service account JSON
	SecretKey  string
	BucketName string
}

func (ProdCloudStorage) Enabled() bool            { return true }
func (p ProdCloudStorage) GetStorageHost() string { return p.StorageHost }
func (p ProdCloudStorage) GetBucket() string      { return p.BucketName }

func (p ProdCloudStorage) ClientOptions() []option.ClientOption {
	return []option.ClientOption{option.WithCredentialsJSON([]byte(p.SecretKey))}
}

var _ CloudStorage = LocalCloudStorage{}

// LocalCloudStorage points at fsouza/fake-gcs-server,
// StorageHost is what stem URLs start with and HostEndpoint is its JSON API
type LocalCloudStorage struct {
	StorageHost  string
	HostEndpoint string
	BucketName   string
}

func (LocalCloudStorage) Enabled() bool            { return true }
func (l LocalCloudStorage) GetStorageHost() string { return l.StorageHost }
func (l LocalCloudStorage) GetBucket() string      { return l.BucketName }

func (l LocalCloudStorage) ClientOptions() []option.ClientOption {
	return []option.ClientOption{
		option.WithEndpoint(l.HostEndpoint),
		option.WithoutAuthentication(),
	}
}

var _ CloudStorage = NoCloudStorage{}

// NoCloudStorage keeps stems on the local disk next to their source
type NoCloudStorage struct{}

func (NoCloudStorage) Enabled() bool                        { return false }
func (NoCloudStorage) GetStorageHost() string               { return "" }
func (NoCloudStorage) GetBucket() string                    { return "" }
func (NoCloudStorage) ClientOptions() []option.ClientOption { return nil }
