package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"property-service/internal/constants"
	"property-service/internal/contextkeys"
	"property-service/internal/core/port"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

type eventPublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ViewEventsPublisher implements ViewCounterPort by enqueueing a view event;
// the increment itself happens in the consumer.
type ViewEventsPublisher struct {
	producer   eventPublisher
	routingKey string
	now        func() time.Time
}

func NewViewEventsPublisher(producer eventPublisher, routingKey string) (*ViewEventsPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &ViewEventsPublisher{
		producer:   producer,
		routingKey: routingKey,
		now:        time.Now,
	}, nil
}

func (a *ViewEventsPublisher) RecordView(ctx context.Context, propertyID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "ViewEventsPublisher",
		"routing_key": a.routingKey,
		"property_id": propertyID,
	})

	traceID := contextkeys.TraceIDFromContext(ctx)
	dto := PropertyViewedEventDTO{
		PropertyID: propertyID,
		ViewedAt:   a.now().UTC(),
		TraceID:    traceID,
	}

	body, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal view event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Timestamp:    dto.ViewedAt,
		Type:         propertyViewedEventType,
		Headers: amqp.Table{
			constants.HeaderEventType:    propertyViewedEventType,
			constants.HeaderEventVersion: propertyViewedEventVersion,
		},
	}
	if traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish view event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish view event for property %s: %w", propertyID, err)
	}

	adapterLogger.Debug("View event published", nil)
	return nil
}
