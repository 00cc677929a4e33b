package worker

import (
	"sync"

	"github.com/apex/log"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
)

type MessageChannel interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
	Close() error
}

type MessageHandler interface {
	HandleMessage(message amqp091.Delivery) error
}

// QueueWorker handles one message at a time, so separations never overlap
type QueueWorker struct {
	channel     MessageChannel
	channelLock sync.Mutex
	handler     MessageHandler
	queueName   string
}

func NewQueueWorker(channel MessageChannel, queueName string, handler MessageHandler) *QueueWorker {
	return &QueueWorker{
		channel:   channel,
		queueName: queueName,
		handler:   handler,
	}
}

func NewQueueWorkerFromConnection(conn *amqp091.Connection, queueName string, handler MessageHandler) (*QueueWorker, error) {
	rabbitChannel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, cerr.Wrap(err).Error("Failed to get channel")
	}

	queue, err := rabbitChannel.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)

	if err != nil {
		_ = rabbitChannel.Close()
		_ = conn.Close()
		return nil, cerr.Field("queue_name", queueName).
			Wrap(err).Error("Failed to declare queue")
	}

	// one unacked message at a time
	if err := rabbitChannel.Qos(1, 0, false); err != nil {
		_ = rabbitChannel.Close()
		_ = conn.Close()
		return nil, cerr.Wrap(err).Error("Failed to set channel prefetch")
	}

	return NewQueueWorker(rabbitChannel, queue.Name, handler), nil
}

func (q *QueueWorker) Start() error {
	log.WithField("queue_name", q.queueName).Info("Starting worker")

	q.channelLock.Lock()
	channel := q.channel
	if channel == nil {
		q.channelLock.Unlock()
		return cerr.Error("Worker has been stopped")
	}

	messageStream, err := channel.Consume(
		q.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	q.channelLock.Unlock()

	if err != nil {
		return cerr.Field("queue_name", q.queueName).
			Wrap(err).Error("Failed to start consuming from channel")
	}

	defer channel.Close()

	for message := range messageStream {
		q.handle(message)
	}

	return nil
}

func (q *QueueWorker) handle(message amqp091.Delivery) {
	logger := log.WithField("message_type", message.Type)
	logger.Info("Handling message")

	err := q.handler.HandleMessage(message)
	if err != nil {
		err = cerr.Field("message_type", message.Type).
			Wrap(err).Error("Failed to process message")

		cerr.Log(err)

		if err = message.Nack(false, false); err != nil {
			logger.Error("Failed to nack message")
		}
		return
	}

	logger.Info("Successfully processed message")
	if err = message.Ack(false); err != nil {
		logger.Error("Failed to ack message")
	}
}

func (q *QueueWorker) Stop() {
	q.channelLock.Lock()
	defer q.channelLock.Unlock()
	if q.channel != nil {
		_ = q.channel.Close()
	}
	q.channel = nil
}
