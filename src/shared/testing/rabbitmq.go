package testing

import (
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-separator/src/shared/config/dev"
)

const (
	RabbitMQHost      = dev.RabbitMQHost
	RabbitMQQueueName = "stem-separator-test"
)

func MakeRabbitMQConnection() *amqp091.Connection {
	return ExpectSuccess(amqp091.Dial(RabbitMQHost))
}

// ResetRabbitMQ leaves an empty queue declared the same way the worker declares it
func ResetRabbitMQ(conn *amqp091.Connection) {
	channel := ExpectSuccess(conn.Channel())
	defer channel.Close()

	ExpectSuccess(channel.QueueDeclare(RabbitMQQueueName, true, false, false, false, nil))
	ExpectSuccess(channel.QueuePurge(RabbitMQQueueName, false))
}

func AfterSuiteRabbitMQ(conn *amqp091.Connection) {
	channel := ExpectSuccess(conn.Channel())
	ExpectSuccess(channel.QueueDelete(RabbitMQQueueName, false, false, false))
	_ = channel.Close()
	_ = conn.Close()
}
