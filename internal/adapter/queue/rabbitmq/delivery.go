package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// Delivery adapts an amqp.Delivery to usecase.Delivery.
type Delivery struct {
	d amqp.Delivery
}

// NewDelivery wraps d.
func NewDelivery(d amqp.Delivery) *Delivery {
	return &Delivery{d: d}
}

func (d *Delivery) Body() []byte {
	return d.d.Body
}

// Ack acknowledges this delivery only.
func (d *Delivery) Ack() error {
	return d.d.Ack(false)
}

// Nack negatively acknowledges this delivery only.
func (d *Delivery) Nack(requeue bool) error {
	return d.d.Nack(false, requeue)
}
