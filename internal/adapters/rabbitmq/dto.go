package rabbitmq

import "time"

// PropertyViewedEventDTO - body of a property.viewed message.
type PropertyViewedEventDTO struct {
	PropertyID string    `json:"propertyId"`
	ViewedAt   time.Time `json:"viewedAt"`
	TraceID    string    `json:"traceId,omitempty"`
}

const (
	propertyViewedEventType    = "PropertyViewedEvent"
	propertyViewedEventVersion = "1.0.0"
)
