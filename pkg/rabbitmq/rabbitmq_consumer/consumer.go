package rabbitmq_consumer

import (
	"context"
	"fmt"
	"property-service/pkg/rabbitmq/rabbitmq_common"
	"property-service/pkg/rabbitmq/rabbitmq_producer"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler processes one delivery. The consumer acks on nil and retries or dead-letters otherwise.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

type ConsumerConfig struct {
	QueueName     string
	DurableQueue  bool
	PrefetchCount int
	ConsumerTag   string

	// queue is bound to this exchange with every routing key
	ExchangeName string
	ExchangeType string
	RoutingKeys  []string

	// retry loop: main queue -> RetryExchange -> RetryQueue (TTL) -> ExchangeName
	EnableRetryMechanism bool
	RetryExchange        string
	RetryQueue           string
	RetryTTL             time.Duration
	FinalDLXExchange     string
	FinalDLQ             string
	FinalDLQRoutingKey   string
	MaxRetries           int

	Logger rabbitmq_common.Logger
}

func (c ConsumerConfig) Validate() error {
	if c.QueueName == "" {
		return fmt.Errorf("consumer: queue name is required")
	}
	if c.ExchangeName != "" && c.ExchangeType == "" {
		return fmt.Errorf("consumer: exchange type is required when binding to exchange '%s'", c.ExchangeName)
	}
	if c.EnableRetryMechanism {
		if c.ExchangeName == "" {
			return fmt.Errorf("consumer: retries need an exchange to route messages back to")
		}
		if c.RetryExchange == "" || c.RetryQueue == "" || c.FinalDLXExchange == "" || c.FinalDLQ == "" {
			return fmt.Errorf("consumer: retry exchange/queue and final DLX/DLQ names are required")
		}
		if c.RetryTTL <= 0 {
			return fmt.Errorf("consumer: retry TTL must be positive")
		}
		if c.MaxRetries < 0 {
			return fmt.Errorf("consumer: max retries must not be negative")
		}
	}
	return nil
}

// Consumer dispatches every delivery to the handler in its own goroutine; PrefetchCount bounds the fan-out.
type Consumer struct {
	config            ConsumerConfig
	connection        *amqp.Connection
	channel           *amqp.Channel
	handler           MessageHandler
	finalDlxPublisher *rabbitmq_producer.Publisher
	wg                sync.WaitGroup

	Logger rabbitmq_common.Logger
}

func NewConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*Consumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("consumer: message handler is required")
	}
	if connManager == nil {
		return nil, fmt.Errorf("consumer: connection manager is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("consumer: failed to get channel from manager: %w", err)
	}

	c := &Consumer{
		config:     cfg,
		connection: conn,
		channel:    ch,
		handler:    handler,
		Logger:     logger,
	}

	if err := c.setupTopology(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consumer: setup failed: %w", err)
	}

	if cfg.EnableRetryMechanism {
		dlxPublisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName: cfg.FinalDLXExchange,
			Logger:       logger,
		}, connManager)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("consumer: failed to create final DLX publisher: %w", err)
		}
		c.finalDlxPublisher = dlxPublisher
	}

	return c, nil
}

func (c *Consumer) setupTopology() error {
	cfg := c.config

	if cfg.PrefetchCount > 0 {
		if err := c.channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	if cfg.ExchangeName != "" {
		c.Logger.Debug("Declaring exchange", "name", cfg.ExchangeName, "type", cfg.ExchangeType)
		if err := c.channel.ExchangeDeclare(cfg.ExchangeName, cfg.ExchangeType, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange '%s': %w", cfg.ExchangeName, err)
		}
	}

	var queueArgs amqp.Table
	if cfg.EnableRetryMechanism {
		// rejected messages go to the retry exchange
		queueArgs = amqp.Table{"x-dead-letter-exchange": cfg.RetryExchange}
	}

	c.Logger.Debug("Declaring queue", "name", cfg.QueueName, "durable", cfg.DurableQueue)
	if _, err := c.channel.QueueDeclare(cfg.QueueName, cfg.DurableQueue, false, false, false, queueArgs); err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", cfg.QueueName, err)
	}

	for _, key := range cfg.RoutingKeys {
		c.Logger.Debug("Binding queue", "queue", cfg.QueueName, "exchange", cfg.ExchangeName, "routing_key", key)
		if err := c.channel.QueueBind(cfg.QueueName, key, cfg.ExchangeName, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue '%s' with key '%s': %w", cfg.QueueName, key, err)
		}
	}

	if !cfg.EnableRetryMechanism {
		return nil
	}

	if err := c.channel.ExchangeDeclare(cfg.FinalDLXExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLX: %w", err)
	}
	if _, err := c.channel.QueueDeclare(cfg.FinalDLQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLQ: %w", err)
	}
	if err := c.channel.QueueBind(cfg.FinalDLQ, cfg.FinalDLQRoutingKey, cfg.FinalDLXExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind final DLQ: %w", err)
	}

	if err := c.channel.ExchangeDeclare(cfg.RetryExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare retry exchange: %w", err)
	}
	_, err := c.channel.QueueDeclare(cfg.RetryQueue, true, false, false, false, amqp.Table{
		"x-message-ttl":          int32(cfg.RetryTTL.Milliseconds()),
		"x-dead-letter-exchange": cfg.ExchangeName,
	})
	if err != nil {
		return fmt.Errorf("failed to declare retry-wait queue: %w", err)
	}
	if err := c.channel.QueueBind(cfg.RetryQueue, "", cfg.RetryExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind retry-wait queue: %w", err)
	}

	c.Logger.Debug("Retry topology ready", "retry_queue", cfg.RetryQueue, "dlq", cfg.FinalDLQ)
	return nil
}

// StartConsuming blocks until ctx is cancelled (nil) or the connection drops (error).
func (c *Consumer) StartConsuming(ctx context.Context) error {
	if c.channel == nil || c.connection == nil || c.connection.IsClosed() {
		return fmt.Errorf("consumer: not connected")
	}

	msgs, err := c.channel.Consume(
		c.config.QueueName,
		c.config.ConsumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumer %s: failed to register on queue '%s': %w", c.config.ConsumerTag, c.config.QueueName, err)
	}

	notifyClose := c.connection.NotifyClose(make(chan *amqp.Error, 1))

	c.Logger.Info("Waiting for messages", "queue_name", c.config.QueueName)

	for {
		// cancellation wins over pending deliveries
		select {
		case <-ctx.Done():
			c.Logger.Info("Context cancelled, stopping consumer", "consumer_tag", c.config.ConsumerTag)
			return nil
		default:
		}

		select {
		case <-ctx.Done():
			c.Logger.Info("Context cancelled, stopping consumer", "consumer_tag", c.config.ConsumerTag)
			return nil

		case amqpErr := <-notifyClose:
			if amqpErr == nil {
				return fmt.Errorf("consumer: connection closed")
			}
			c.Logger.Error(amqpErr, "Connection closed for consumer", "consumer_tag", c.config.ConsumerTag)
			return amqpErr

		case d, ok := <-msgs:
			if !ok {
				c.Logger.Info("Deliveries channel closed", "consumer_tag", c.config.ConsumerTag)
				return fmt.Errorf("consumer: deliveries channel closed")
			}

			c.wg.Add(1)
			go func(delivery amqp.Delivery) {
				defer c.wg.Done()
				c.process(ctx, delivery)
			}(d)
		}
	}
}

func (c *Consumer) process(ctx context.Context, delivery amqp.Delivery) {
	processErr := c.handler(ctx, delivery)
	if processErr == nil {
		_ = delivery.Ack(false)
		return
	}

	c.Logger.Error(processErr, "Handler error for message", "delivery_tag", delivery.DeliveryTag)

	switch failureAction(c.config, deathCount(delivery, c.config.QueueName)) {
	case actionDrop:
		_ = delivery.Nack(false, false)
	case actionRetry:
		c.Logger.Info("Retrying message", "delivery_tag", delivery.DeliveryTag)
		_ = delivery.Nack(false, false)
	case actionDeadLetter:
		err := c.finalDlxPublisher.Publish(context.Background(), c.config.FinalDLQRoutingKey, amqp.Publishing{
			ContentType:  delivery.ContentType,
			Body:         delivery.Body,
			Headers:      delivery.Headers,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		})
		if err != nil {
			c.Logger.Error(err, "Failed to publish to final DLX, sending through retry loop again",
				"delivery_tag", delivery.DeliveryTag)
			_ = delivery.Nack(false, false)
			return
		}
		c.Logger.Warn("Max retries reached, message moved to DLQ", "delivery_tag", delivery.DeliveryTag)
		_ = delivery.Ack(false)
	}
}

type failureDecision int

const (
	actionDrop failureDecision = iota
	actionRetry
	actionDeadLetter
)

func failureAction(cfg ConsumerConfig, deaths int64) failureDecision {
	if !cfg.EnableRetryMechanism {
		return actionDrop
	}
	if deaths < int64(cfg.MaxRetries) {
		return actionRetry
	}
	return actionDeadLetter
}

// deathCount reads how many times the message was rejected from queueName according to x-death.
func deathCount(d amqp.Delivery, queueName string) int64 {
	if d.Headers == nil {
		return 0
	}
	deaths, ok := d.Headers["x-death"].([]interface{})
	if !ok {
		return 0
	}

	for _, death := range deaths {
		tbl, ok := death.(amqp.Table)
		if !ok {
			continue
		}
		if queue, ok := tbl["queue"].(string); ok && queue == queueName {
			if count, ok := tbl["count"].(int64); ok {
				return count
			}
		}
	}
	return 0
}

// Close waits for in-flight handlers, then closes the DLX publisher and the channel.
func (c *Consumer) Close() error {
	c.wg.Wait()

	var firstErr error
	if c.finalDlxPublisher != nil {
		if err := c.finalDlxPublisher.Close(); err != nil {
			firstErr = err
		}
	}
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.Logger.Error(err, "Error closing consumer channel")
			if firstErr == nil {
				firstErr = err
			}
		}
		c.channel = nil
	}

	c.Logger.Info("Consumer closed", "queue_name", c.config.QueueName)
	return firstErr
}
