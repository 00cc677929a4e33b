package testing

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-separator/src/shared/lib/rabbitmq"
)

var _ rabbitmq.Publisher = &RecordingPublisher{}

// RecordingPublisher keeps everything published to it instead of talking to a broker
type RecordingPublisher struct {
	Unavailable bool

	lock      sync.Mutex
	published []amqp091.Publishing
}

func (r *RecordingPublisher) Publish(msg amqp091.Publishing) error {
	if r.Unavailable {
		return errors.New("broker unavailable")
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	r.published = append(r.published, msg)
	return nil
}

func (r *RecordingPublisher) Published() []amqp091.Publishing {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]amqp091.Publishing{}, r.published...)
}
