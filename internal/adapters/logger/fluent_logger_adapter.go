package logger_adapter

import (
	"fmt"
	"log/slog"
	"property-service/internal/core/port"
	"time"
)

// fluentPoster - the part of *fluent.Fluent the adapter needs.
type fluentPoster interface {
	Post(tag string, message interface{}) error
}

// FluentLoggerAdapter ships records to Fluent Bit, tagged "<app>.<level>".
type FluentLoggerAdapter struct {
	client   fluentPoster
	appName  string
	fields   port.Fields
	minLevel slog.Level
}

func NewFluentLoggerAdapter(client fluentPoster, appName string, minLevel slog.Leveler) (*FluentLoggerAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("fluent client cannot be nil")
	}

	level := slog.LevelInfo
	if minLevel != nil {
		level = minLevel.Level()
	}

	return &FluentLoggerAdapter{
		client:   client,
		appName:  appName,
		fields:   make(port.Fields),
		minLevel: level,
	}, nil
}

func (a *FluentLoggerAdapter) mergeFields(fields port.Fields) port.Fields {
	merged := make(port.Fields, len(a.fields)+len(fields)+4)
	for k, v := range a.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func (a *FluentLoggerAdapter) post(level slog.Level, msg string, fields port.Fields, err error) {
	if level < a.minLevel {
		return
	}

	data := a.mergeFields(fields)
	if err != nil {
		data["error"] = err.Error()
	}
	levelName := levelName(level)
	data["level"] = levelName
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)

	tag := levelName
	if a.appName != "" {
		tag = a.appName + "." + levelName
	}

	// async client; delivery failures are not the caller's problem
	_ = a.client.Post(tag, map[string]interface{}(data))
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

func (a *FluentLoggerAdapter) Info(msg string, fields port.Fields) {
	a.post(slog.LevelInfo, msg, fields, nil)
}

func (a *FluentLoggerAdapter) Warn(msg string, fields port.Fields) {
	a.post(slog.LevelWarn, msg, fields, nil)
}

func (a *FluentLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	a.post(slog.LevelError, msg, fields, err)
}

func (a *FluentLoggerAdapter) Debug(msg string, fields port.Fields) {
	a.post(slog.LevelDebug, msg, fields, nil)
}

func (a *FluentLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	return &FluentLoggerAdapter{
		client:   a.client,
		appName:  a.appName,
		fields:   a.mergeFields(fields),
		minLevel: a.minLevel,
	}
}
