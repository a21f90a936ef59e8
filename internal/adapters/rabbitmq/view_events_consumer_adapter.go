package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"property-service/internal/constants"
	"property-service/internal/contextkeys"
	"property-service/internal/contracts"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"property-service/internal/core/port/usecases_port"
	"property-service/pkg/rabbitmq/rabbitmq_common"
	"property-service/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ViewEventsHandler applies queued view events through RecordViewUseCase.
type ViewEventsHandler struct {
	useCase usecases_port.RecordViewUseCase
	logger  port.LoggerPort
}

func NewViewEventsHandler(useCase usecases_port.RecordViewUseCase, logger port.LoggerPort) *ViewEventsHandler {
	return &ViewEventsHandler{useCase: useCase, logger: logger}
}

// Handle returns nil for messages that can never succeed, so they are acked instead of retried.
func (h *ViewEventsHandler) Handle(ctx context.Context, delivery amqp.Delivery) error {
	traceID, _ := delivery.Headers[constants.HeaderTraceID].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := h.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"component":    "ViewEventsHandler",
		"delivery_tag": delivery.DeliveryTag,
	})

	if err := contracts.ValidateViewedEvent(delivery.Body); err != nil {
		msgLogger.Error("Dropping view event that does not match the schema", err, nil)
		return nil
	}

	var dto PropertyViewedEventDTO
	if err := json.Unmarshal(delivery.Body, &dto); err != nil {
		msgLogger.Error("Dropping undecodable view event", err, nil)
		return nil
	}

	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	err := h.useCase.Execute(ctx, dto.PropertyID)
	if errors.Is(err, domain.ErrPropertyNotFound) {
		msgLogger.Warn("View event for unknown property dropped", port.Fields{"property_id": dto.PropertyID})
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to record view for property %s: %w", dto.PropertyID, err)
	}
	return nil
}

// ViewEventsConsumerAdapter - EventListenerPort over the property_views queue.
type ViewEventsConsumerAdapter struct {
	consumer *rabbitmq_consumer.Consumer
}

func NewViewEventsConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	handler *ViewEventsHandler,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ViewEventsConsumerAdapter, error) {
	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewConsumer(consumerCfg, handler.Handle, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for view events: %w", err)
	}
	return &ViewEventsConsumerAdapter{consumer: consumer}, nil
}

func (a *ViewEventsConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *ViewEventsConsumerAdapter) Close() error {
	return a.consumer.Close()
}
