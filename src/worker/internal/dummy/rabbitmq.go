package dummy

import (
	"sync"

	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-separator/src/shared/lib/rabbitmq"
	"github.com/veedubyou/stem-separator/src/worker/internal/worker"
)

var _ rabbitmq.Publisher = &RabbitMQ{}
var _ worker.MessageChannel = &RabbitMQ{}
var _ amqp091.Acknowledger = RabbitMQAcknowledger{}

type RabbitMQ struct {
	Unavailable    bool
	MessageChannel chan amqp091.Delivery

	mutex       sync.Mutex
	published   []amqp091.Publishing
	ackCounter  int
	nackCounter int
}

type RabbitMQAcknowledger struct {
	ack  func()
	nack func()
}

func NewRabbitMQ() *RabbitMQ {
	return &RabbitMQ{
		Unavailable:    false,
		MessageChannel: make(chan amqp091.Delivery, 100),
	}
}

func (r *RabbitMQ) Publish(msg amqp091.Publishing) error {
	if r.Unavailable {
		return NetworkFailure
	}

	r.mutex.Lock()
	r.published = append(r.published, msg)
	r.mutex.Unlock()

	acknowledger := RabbitMQAcknowledger{
		ack: func() {
			r.mutex.Lock()
			defer r.mutex.Unlock()
			r.ackCounter++
		},
		nack: func() {
			r.mutex.Lock()
			defer r.mutex.Unlock()
			r.nackCounter++
		},
	}

	r.MessageChannel <- amqp091.Delivery{
		Acknowledger:    acknowledger,
		ContentType:     msg.ContentType,
		ContentEncoding: msg.ContentEncoding,
		DeliveryMode:    msg.DeliveryMode,
		Timestamp:       msg.Timestamp,
		Type:            msg.Type,
		Body:            msg.Body,
	}
	return nil
}

func (r *RabbitMQ) Published() []amqp091.Publishing {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]amqp091.Publishing{}, r.published...)
}

func (r *RabbitMQ) AckCounter() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.ackCounter
}

func (r *RabbitMQ) NackCounter() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.nackCounter
}

func (r *RabbitMQ) Consume(_ string, _ string, _ bool, _ bool, _ bool, _ bool, _ amqp091.Table) (<-chan amqp091.Delivery, error) {
	if r.Unavailable {
		return nil, NetworkFailure
	}

	return r.MessageChannel, nil
}

func (r *RabbitMQ) Close() error {
	return nil
}

func (r RabbitMQAcknowledger) Ack(tag uint64, multiple bool) error {
	r.ack()
	return nil
}

func (r RabbitMQAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	r.nack()
	return nil
}

func (r RabbitMQAcknowledger) Reject(tag uint64, requeue bool) error {
	r.nack()
	return nil
}
