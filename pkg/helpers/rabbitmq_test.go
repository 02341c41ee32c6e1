package helpers

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAck struct {
	acked, nacked []uint64
	requeued      bool
}

func (r *recordingAck) Ack(tag uint64, _ bool) error {
	r.acked = append(r.acked, tag)
	return nil
}

func (r *recordingAck) Nack(tag uint64, _ bool, requeue bool) error {
	r.nacked = append(r.nacked, tag)
	r.requeued = r.requeued || requeue
	return nil
}

func (r *recordingAck) Reject(tag uint64, requeue bool) error {
	return r.Nack(tag, false, requeue)
}

func TestSettle(t *testing.T) {
	ack := &recordingAck{}

	require.NoError(t, Settle(amqp.Delivery{Acknowledger: ack, DeliveryTag: 1}, nil))
	require.NoError(t, Settle(amqp.Delivery{Acknowledger: ack, DeliveryTag: 2}, errors.New("smtp timeout")))

	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2}, ack.nacked)
	assert.False(t, ack.requeued)
}
