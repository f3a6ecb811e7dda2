package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	CatalogExchange = "catalog"
	CatalogQueue    = "adventure-service.catalog"
	CatalogBinding  = "adventure.*"
)

// ConsumerOptions names the topology a Consumer declares and reads from.
// Zero fields take the catalog feed defaults.
type ConsumerOptions struct {
	Exchange     string
	ExchangeKind string
	Queue        string
	BindingKey   string
	// Prefetch caps unacked deliveries; zero leaves the broker default.
	Prefetch int
	Tag      string
}

func (o ConsumerOptions) withDefaults() ConsumerOptions {
	if o.Exchange == "" {
		o.Exchange = CatalogExchange
	}
	if o.ExchangeKind == "" {
		o.ExchangeKind = ExchangeKind
	}
	if o.Queue == "" {
		o.Queue = CatalogQueue
	}
	if o.BindingKey == "" {
		o.BindingKey = CatalogBinding
	}
	if o.Prefetch < 0 {
		o.Prefetch = 0
	}
	return o
}

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	opts    ConsumerOptions
	logger  *logrus.Logger
}

func NewConsumer(url string, opts ConsumerOptions, logger *logrus.Logger) (*Consumer, error) {
	opts = opts.withDefaults()

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := declareTopology(ch, opts); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Consumer{conn: conn, channel: ch, opts: opts, logger: logger}, nil
}

// declareTopology makes a durable exchange and queue and binds them.
func declareTopology(ch *amqp.Channel, opts ConsumerOptions) error {
	if err := ch.ExchangeDeclare(opts.Exchange, opts.ExchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq exchange declare %s: %w", opts.Exchange, err)
	}
	q, err := ch.QueueDeclare(opts.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq queue declare %s: %w", opts.Queue, err)
	}
	if err := ch.QueueBind(q.Name, opts.BindingKey, opts.Exchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue bind %s -> %s: %w", opts.BindingKey, q.Name, err)
	}
	if opts.Prefetch > 0 {
		if err := ch.Qos(opts.Prefetch, 0, false); err != nil {
			return fmt.Errorf("rabbitmq qos: %w", err)
		}
	}
	return nil
}

// Consume delivers without auto-ack; the handler acks once the upsert commits.
func (c *Consumer) Consume() (<-chan amqp.Delivery, error) {
	msgs, err := c.channel.Consume(c.opts.Queue, c.opts.Tag, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consume: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"queue":    c.opts.Queue,
		"binding":  c.opts.BindingKey,
		"prefetch": c.opts.Prefetch,
	}).Info("consuming catalog updates")
	return msgs, nil
}

func (c *Consumer) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
