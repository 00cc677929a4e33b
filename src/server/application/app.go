package application

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/veedubyou/stem-separator/src/server/internal/timeline/gateway"
	"github.com/veedubyou/stem-separator/src/server/internal/timeline/usecase"
	"github.com/veedubyou/stem-separator/src/shared/config"
	"github.com/veedubyou/stem-separator/src/shared/lib/dynamo"
	"github.com/veedubyou/stem-separator/src/shared/lib/rabbitmq"
	"github.com/veedubyou/stem-separator/src/shared/timeline/storage"
)

type HTTPMethod string

const (
	GET  HTTPMethod = "GET"
	POST HTTPMethod = "POST"
	PUT  HTTPMethod = "PUT"
)

type App struct {
	echo      *echo.Echo
	port      string
	publisher *rabbitmq.QueuePublisher
}

type Config struct {
	DynamoConfig       config.Dynamo
	RabbitMQURL        string
	RabbitMQQueueName  string
	CORSAllowedOrigins []string
	Port               string
	Log                bool
}

func NewApp(config Config) App {
	e := echo.New()

	if config.Log {
		e.Use(middleware.Logger())
	}

	corsMiddleware := makeCorsMiddleware(config)

	handleRoute := func(method HTTPMethod, path string, handlerFunc echo.HandlerFunc) {
		params := func() (string, echo.HandlerFunc, echo.MiddlewareFunc) {
			return path, handlerFunc, corsMiddleware
		}

		e.OPTIONS(params())

		switch method {
		case GET:
			e.GET(params())
		case POST:
			e.POST(params())
		case PUT:
			e.PUT(params())
		default:
			panic("unhandled http method!")
		}
	}

	publisher := makeRabbitMQPublisher(config)
	timelineGateway := makeTimelineGateway(dynamolib.Connect(config.DynamoConfig), publisher)

	// health check
	handleRoute(GET, "/health-check", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// timeline routes
	handleRoute(GET, "/timelines/:id", func(c echo.Context) error {
		timelineID := c.Param("id")
		return timelineGateway.GetTimeline(c, timelineID)
	})
	handleRoute(PUT, "/timelines/:id", func(c echo.Context) error {
		timelineID := c.Param("id")
		return timelineGateway.SetTimeline(c, timelineID)
	})
	handleRoute(POST, "/timelines/:id/separate", func(c echo.Context) error {
		timelineID := c.Param("id")
		return timelineGateway.RequestSeparation(c, timelineID)
	})

	return App{
		echo:      e,
		port:      config.Port,
		publisher: publisher,
	}
}

func (a *App) Start() error {
	err := a.echo.Start(a.port)
	if err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "Couldn't start echo server")
	}

	return nil
}

func (a *App) Stop() error {
	defer a.publisher.Close()

	err := a.echo.Close()
	if err != nil {
		return errors.Wrap(err, "Failed to stop echo server")
	}

	return nil
}

func makeRabbitMQPublisher(config Config) *rabbitmq.QueuePublisher {
	publisher, err := rabbitmq.NewQueuePublisher(config.RabbitMQURL, config.RabbitMQQueueName)
	if err != nil {
		panic(errors.Wrap(err, "Failed to create rabbitMQ publisher"))
	}

	return publisher
}

func makeTimelineGateway(dynamoDB dynamolib.DynamoDBWrapper, publisher rabbitmq.Publisher) timelinegateway.Gateway {
	timelineDB := timelinestorage.NewDB(dynamoDB)
	timelineUsecase := timelineusecase.NewUsecase(timelineDB, publisher)
	return timelinegateway.NewGateway(timelineUsecase)
}

func makeCorsMiddleware(config Config) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: config.CORSAllowedOrigins,
		AllowHeaders: []string{echo.HeaderContentType},
	})
}
