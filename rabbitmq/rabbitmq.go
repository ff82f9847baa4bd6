package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Exchange is the topic exchange lifecycle messages are published to.
const Exchange = "calendar"

type Producer struct {
	// Rabbitmq DSN
	connStr  string
	exchange string

	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewProducer(connStr string) *Producer {
	return &Producer{
		connStr:  connStr,
		exchange: Exchange,
	}
}

func (p *Producer) Open() (err error) {
	// ensure a DSN is set before attempting to connect.
	if p.connStr == "" {
		return fmt.Errorf("connection string required")
	}

	if p.conn, err = amqp.Dial(p.connStr); err != nil {
		return err
	}

	if p.channel, err = p.conn.Channel(); err != nil {
		return err
	}

	if err = p.channel.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "error creating the exchange")
	}

	return nil
}

func (p *Producer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *Producer) Publish(eventName string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return p.channel.Publish(
		p.exchange,
		eventName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         jsonData,
		})
}

// Handler processes one delivery. A returned error is logged and the
// message is dropped.
type Handler func(ctx context.Context, routingKey string, body []byte) error

type Consumer struct {
	conn    *amqp.Connection
	handler Handler
	logger  *zap.Logger
}

func NewConsumer(conn *amqp.Connection, handler Handler, logger *zap.Logger) *Consumer {
	return &Consumer{
		conn:    conn,
		handler: handler,
		logger:  logger,
	}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (c *Consumer) Start(ctx context.Context, exchangeName, routingKey, queueName string) error {
	ch, err := c.createChannel(exchangeName, routingKey, queueName)
	if err != nil {
		return errors.Wrap(err, "error creating channel")
	}
	defer ch.Close()

	messages, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return errors.Wrap(err, "error whilst consuming messages")
	}

	c.logger.Info("starting worker", zap.String("queue", queueName))
	go c.worker(ctx, messages)

	select {
	case chanErr := <-ch.NotifyClose(make(chan *amqp.Error, 1)):
		c.logger.Info("channel notified to close")
		if chanErr != nil {
			return chanErr
		}
		return nil
	case <-ctx.Done():
		return nil
	}
}

// createChannel creates a channel from the amqp connection
// and creates all of the necessary exchanges, queues, and bindings
func (c *Consumer) createChannel(exchangeName, routingKey, queueName string) (*amqp.Channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "error creating amqp channel")
	}

	err = ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating the exchange")
	}

	queue, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating the queue")
	}

	err = ch.QueueBind(queue.Name, routingKey, exchangeName, false, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error binding queue to exchange")
	}

	err = ch.Qos(1, 0, false)
	if err != nil {
		return nil, errors.Wrap(err, "error configuring prefetch")
	}

	return ch, nil
}

func (c *Consumer) worker(ctx context.Context, messages <-chan amqp.Delivery) {
	for delivery := range messages {
		c.handle(ctx, delivery)
	}
}

func (c *Consumer) handle(ctx context.Context, delivery amqp.Delivery) {
	c.logger.Debug("received a message", zap.String("routingKey", delivery.RoutingKey))

	if err := c.handler(ctx, delivery.RoutingKey, delivery.Body); err != nil {
		c.logger.Error("error processing message",
			zap.String("routingKey", delivery.RoutingKey),
			zap.Error(err),
		)
	}

	if err := delivery.Ack(false); err != nil {
		c.logger.Error("error acknowledging message", zap.Error(err))
	}
}
