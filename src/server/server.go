package main

import (
	"strings"

	"github.com/veedubyou/stem-separator/src/server/application"
	"github.com/veedubyou/stem-separator/src/shared/config"
	"github.com/veedubyou/stem-separator/src/shared/config/dev"
	"github.com/veedubyou/stem-separator/src/shared/config/envvar"
	"github.com/veedubyou/stem-separator/src/shared/config/prod"
	"github.com/veedubyou/stem-separator/src/shared/lib/env"
)

func main() {
	var appConfig application.Config

	switch env.Get() {
	case env.Production:
		commaSeparatedOrigins := envvar.MustGet(envvar.ALLOWED_FE_ORIGINS)
		allowedOrigins := strings.Split(commaSeparatedOrigins, ",")

		appConfig = application.Config{
			DynamoConfig: config.ProdDynamo{
				AccessKeyID:     envvar.MustGet(envvar.AWS_ACCESS_KEY_ID),
				SecretAccessKey: envvar.MustGet(envvar.AWS_SECRET_ACCESS_KEY),
				Region:          prod.DynamoDBRegion,
			},
			RabbitMQURL:        envvar.MustGet(envvar.RABBITMQ_URL),
			RabbitMQQueueName:  envvar.MustGet(envvar.RABBITMQ_QUEUE_NAME),
			CORSAllowedOrigins: allowedOrigins,
			Port:               prod.ServerPort,
			Log:                true,
		}
	case env.Development:
		appConfig = application.Config{
			DynamoConfig:       dev.DynamoConfig,
			RabbitMQURL:        dev.RabbitMQHost,
			RabbitMQQueueName:  dev.RabbitMQQueueName,
			CORSAllowedOrigins: []string{"*"},
			Port:               dev.ServerPort,
			Log:                true,
		}

	default:
		panic("Unexpected environment")
	}

	app := application.NewApp(appConfig)
	if err := app.Start(); err != nil {
		panic(err)
	}
}
