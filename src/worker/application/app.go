package application

import (
	"os"

	"github.com/apex/log"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-separator/src/shared/config"
	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
	dynamolib "github.com/veedubyou/stem-separator/src/shared/lib/dynamo"
	timelineentity "github.com/veedubyou/stem-separator/src/shared/timeline/entity"
	timelinestorage "github.com/veedubyou/stem-separator/src/shared/timeline/storage"
	cloudstorage "github.com/veedubyou/stem-separator/src/worker/internal/cloud_storage/entity"
	filestore "github.com/veedubyou/stem-separator/src/worker/internal/cloud_storage/store"
	"github.com/veedubyou/stem-separator/src/worker/internal/executor"
	"github.com/veedubyou/stem-separator/src/worker/internal/jobs/job_router"
	"github.com/veedubyou/stem-separator/src/worker/internal/jobs/separate"
	"github.com/veedubyou/stem-separator/src/worker/internal/lib/storagepath"
	"github.com/veedubyou/stem-separator/src/worker/internal/publish"
	"github.com/veedubyou/stem-separator/src/worker/internal/separation"
	"github.com/veedubyou/stem-separator/src/worker/internal/separator"
	"github.com/veedubyou/stem-separator/src/worker/internal/source"
	"github.com/veedubyou/stem-separator/src/worker/internal/worker"
)

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}

	return t
}

type App struct {
	worker *worker.QueueWorker
}

type Config struct {
	RabbitMQURL        string
	RabbitMQQueueName  string
	DynamoConfig       config.Dynamo
	CloudStorageConfig config.CloudStorage

	SpleeterBinPath        string
	SpleeterWorkingDirPath string
	PythonBinPath          string
	// nil runs the real binaries
	Executor executor.Executor
	// empty writes stems next to their source
	StemOutputDirPath string
}

func NewApp(config Config) App {
	consumerConn := must(amqp091.Dial(config.RabbitMQURL))

	return App{
		worker: newWorker(config, consumerConn),
	}
}

func (a *App) Start() error {
	err := a.worker.Start()
	if err != nil {
		return cerr.Wrap(err).Error("Failed to start worker")
	}

	return nil
}

func (a *App) Stop() {
	a.worker.Stop()
}

func newWorker(config Config, consumerConn *amqp091.Connection) *worker.QueueWorker {
	timelineStore := timelinestorage.NewDB(dynamolib.Connect(config.DynamoConfig))

	return must(worker.NewQueueWorkerFromConnection(
		consumerConn,
		config.RabbitMQQueueName,
		newJobRouter(config, timelineStore)))
}

func newJobRouter(config Config, timelineStore timelineentity.Store) job_router.JobRouter {
	return job_router.NewJobRouter(
		timelineStore,
		separate.NewJobHandler(newOperator(config, timelineStore)))
}

func newOperator(config Config, timelineStore timelineentity.Store) separation.Operator {
	if err := os.MkdirAll(config.SpleeterWorkingDirPath, os.ModePerm); err != nil {
		panic(err)
	}

	binExecutor := config.Executor
	if binExecutor == nil {
		binExecutor = executor.BinaryFileExecutor{}
	}

	spleeter := must(separator.NewSpleeter(
		config.SpleeterWorkingDirPath,
		config.SpleeterBinPath,
		config.PythonBinPath,
		binExecutor,
	))

	resolver, publisher := newSourceAndPublisher(config)

	return separation.NewOperator(
		timelineStore,
		resolver,
		spleeter,
		publisher,
		separation.Config{OutputDir: config.StemOutputDirPath},
	)
}

func newSourceAndPublisher(config Config) (source.Resolver, publish.StemPublisher) {
	fileStore, ok := newGoogleFileStore(config.CloudStorageConfig)
	if !ok {
		log.Info("No cloud storage configured, stems stay on local disk")
		return source.LocalResolver{}, publish.LocalPublisher{}
	}

	pathGenerator := storagepath.Generator{
		Host:   config.CloudStorageConfig.GetStorageHost(),
		Bucket: config.CloudStorageConfig.GetBucket(),
	}

	resolver := must(source.NewRemoteResolver(config.SpleeterWorkingDirPath, fileStore))
	return resolver, publish.NewCloudPublisher(fileStore, pathGenerator)
}

func newGoogleFileStore(cloudStorageConfig config.CloudStorage) (cloudstorage.FileStore, bool) {
	if !cloudStorageConfig.Enabled() {
		return nil, false
	}

	fileStore := must(filestore.NewGoogleFileStore(
		cloudStorageConfig.GetStorageHost(),
		cloudStorageConfig.ClientOptions()...,
	))
	return fileStore, true
}
