package main

import (
	"github.com/veedubyou/stem-separator/src/shared/config"
	"github.com/veedubyou/stem-separator/src/shared/config/dev"
	"github.com/veedubyou/stem-separator/src/shared/config/envvar"
	"github.com/veedubyou/stem-separator/src/shared/config/local"
	"github.com/veedubyou/stem-separator/src/shared/config/prod"
	"github.com/veedubyou/stem-separator/src/shared/lib/env"
	"github.com/veedubyou/stem-separator/src/worker/application"
)

func main() {
	var appConfig application.Config

	switch env.Get() {
	case env.Production:
		appConfig = application.Config{
			DynamoConfig: config.ProdDynamo{
				AccessKeyID:     envvar.MustGet(envvar.AWS_ACCESS_KEY_ID),
				SecretAccessKey: envvar.MustGet(envvar.AWS_SECRET_ACCESS_KEY),
				Region:          prod.DynamoDBRegion,
			},
			CloudStorageConfig: config.ProdCloudStorage{
				StorageHost: prod.GOOGLE_STORAGE_HOST,
				SecretKey:   envvar.MustGet(envvar.GOOGLE_CLOUD_KEY),
				BucketName:  envvar.MustGet(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME),
			},
			RabbitMQURL:            envvar.MustGet(envvar.RABBITMQ_URL),
			RabbitMQQueueName:      envvar.MustGet(envvar.RABBITMQ_QUEUE_NAME),
			SpleeterBinPath:        envvar.MustGet(envvar.SPLEETER_BIN_PATH),
			SpleeterWorkingDirPath: envvar.MustGet(envvar.SPLEETER_WORKING_DIR_PATH),
			PythonBinPath:          envvar.MustGet(envvar.PYTHON_BIN_PATH),
			StemOutputDirPath:      envvar.Get(envvar.STEM_OUTPUT_DIR_PATH, ""),
		}

	case env.Development:
		appConfig = application.Config{
			DynamoConfig:           dev.DynamoConfig,
			CloudStorageConfig:     config.NoCloudStorage{},
			RabbitMQURL:            dev.RabbitMQHost,
			RabbitMQQueueName:      dev.RabbitMQQueueName,
			SpleeterBinPath:        envvar.Get(envvar.SPLEETER_BIN_PATH, config.SpleeterPath()),
			SpleeterWorkingDirPath: local.WorkingDir("spleeter"),
			PythonBinPath:          envvar.Get(envvar.PYTHON_BIN_PATH, config.PythonPath()),
			StemOutputDirPath:      envvar.Get(envvar.STEM_OUTPUT_DIR_PATH, ""),
		}

	default:
		panic("Unexpected environment")
	}

	app := application.NewApp(appConfig)
	if err := app.Start(); err != nil {
		panic(err)
	}
}
