package constants

const (
	ExchangePropertyEvents     = "property_events"
	ExchangePropertyEventsType = "topic"
)

const (
	QueuePropertyViews      = "property_views"
	QueuePropertyViewsRetry = "property_views_retry_wait"
)

// routing keys
const (
	RoutingKeyPropertyViewed = "property.viewed"
)

const (
	RetryExchange      = "property_views_retry"
	FinalDLXExchange   = "property_views_final_dlx"
	FinalDLQ           = "property_views_final_dlq"
	FinalDLQRoutingKey = "property.views.dlq"
)

const (
	HeaderTraceID      = "x-trace-id"
	HeaderEventType    = "x-event-type"
	HeaderEventVersion = "x-event-version"
)
