package rabbitmq

import (
	"context"
	"sync"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

var _ Publisher = &QueuePublisher{}

//counterfeiter:generate . Publisher
type Publisher interface {
	Publish(msg amqp091.Publishing) error
}

func NewQueuePublisher(rabbitMQURL string, queueName string) (*QueuePublisher, error) {
	publisher := &QueuePublisher{
		rabbitMQURL: rabbitMQURL,
		queueName:   queueName,
	}

	if err := publisher.connectChannel(); err != nil {
		return nil, cerr.Field("queue_name", queueName).
			Wrap(err).Error("Failed to connect to RabbitMQ")
	}

	return publisher, nil
}

// QueuePublisher is safe to share between request handlers
type QueuePublisher struct {
	rabbitMQURL string
	queueName   string

	lock    sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func (q *QueuePublisher) connectChannel() error {
	q.closeChannel()

	conn, err := amqp091.Dial(q.rabbitMQURL)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to dial rabbitMQURL")
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return cerr.Wrap(err).Error("Failed to create rabbit channel")
	}

	_, err = channel.QueueDeclare(
		q.queueName,
		true,
		false,
		false,
		false,
		nil,
	)

	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return cerr.Wrap(err).Error("Failed to declare the queue")
	}

	q.conn = conn
	q.channel = channel
	return nil
}

func (q *QueuePublisher) closeChannel() {
	if q.channel != nil {
		_ = q.channel.Close()
	}
	if q.conn != nil {
		_ = q.conn.Close()
	}

	q.channel = nil
	q.conn = nil
}

func (q *QueuePublisher) publishWithoutRetry(msg amqp091.Publishing) error {
	if q.channel == nil {
		return amqp091.ErrClosed
	}

	msg.ContentType = "application/json"
	msg.DeliveryMode = amqp091.Persistent

	return q.channel.PublishWithContext(
		context.Background(),
		"",
		q.queueName,
		true,
		false,
		msg,
	)
}

// Publish reconnects once if the channel was closed underneath it
func (q *QueuePublisher) Publish(msg amqp091.Publishing) error {
	q.lock.Lock()
	defer q.lock.Unlock()

	err := q.publishWithoutRetry(msg)
	if err == nil {
		return nil
	}

	errctx := cerr.Field("message_type", msg.Type).Field("queue_name", q.queueName)
	publishErr := errctx.Wrap(err).Error("Failed to publish message to rabbitMQ channel")
	if !errors.Is(err, amqp091.ErrClosed) {
		return publishErr
	}

	if err := q.connectChannel(); err != nil {
		log.WithError(err).
			Error("Unable to reconnect to rabbitMQ channel")
		return publishErr
	}

	if err := q.publishWithoutRetry(msg); err != nil {
		return errctx.Wrap(err).Error("Failed to publish message after reconnecting")
	}

	return nil
}

func (q *QueuePublisher) Close() {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.closeChannel()
}
