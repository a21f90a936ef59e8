package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"property-service/internal/core/port"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedPost struct {
	tag  string
	data map[string]interface{}
}

type fakeFluent struct {
	posts []recordedPost
}

func (f *fakeFluent) Post(tag string, message interface{}) error {
	f.posts = append(f.posts, recordedPost{tag: tag, data: message.(map[string]interface{})})
	return nil
}

func TestSlogAdapter_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelDebug, IsJSON: true})

	logger.WithFields(port.Fields{"use_case": "ResolveProperty"}).
		Error("Lookup tier failed", errors.New("db down"), port.Fields{"tier": "relational_slug"})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "Lookup tier failed", record["msg"])
	assert.Equal(t, "ResolveProperty", record["use_case"])
	assert.Equal(t, "relational_slug", record["tier"])
	assert.Equal(t, "db down", record["error"])
}

func TestSlogAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelWarn})

	logger.Debug("hidden", nil)
	logger.Info("hidden", nil)
	assert.Zero(t, buf.Len())

	logger.Warn("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestFluentLoggerAdapter(t *testing.T) {
	client := &fakeFluent{}
	logger, err := NewFluentLoggerAdapter(client, "property-service", slog.LevelInfo)
	require.NoError(t, err)

	child := logger.WithFields(port.Fields{"trace_id": "t-1"})
	child.Debug("dropped", nil)
	child.Warn("slow shard", port.Fields{"country_code": "TR"})
	child.Error("failed", errors.New("boom"), nil)

	require.Len(t, client.posts, 2)
	assert.Equal(t, "property-service.warn", client.posts[0].tag)
	assert.Equal(t, "t-1", client.posts[0].data["trace_id"])
	assert.Equal(t, "TR", client.posts[0].data["country_code"])
	assert.Equal(t, "slow shard", client.posts[0].data["message"])
	assert.Equal(t, "property-service.error", client.posts[1].tag)
	assert.Equal(t, "boom", client.posts[1].data["error"])

	parentOnly := logger.mergeFields(nil)
	assert.NotContains(t, parentOnly, "trace_id", "WithFields must not mutate the parent")
}

func TestFluentLoggerAdapter_NilClient(t *testing.T) {
	_, err := NewFluentLoggerAdapter(nil, "app", nil)
	assert.Error(t, err)
}

func TestMultiLogger(t *testing.T) {
	first, second := &fakeFluent{}, &fakeFluent{}
	a, _ := NewFluentLoggerAdapter(first, "", slog.LevelDebug)
	b, _ := NewFluentLoggerAdapter(second, "", slog.LevelDebug)

	multi, err := NewMultiloggerAdapter(a, nil, b)
	require.NoError(t, err)

	multi.WithFields(port.Fields{"k": "v"}).Info("hello", nil)

	require.Len(t, first.posts, 1)
	require.Len(t, second.posts, 1)
	assert.Equal(t, "info", first.posts[0].tag)
	assert.Equal(t, "v", second.posts[0].data["k"])

	single, err := NewMultiloggerAdapter(a)
	require.NoError(t, err)
	assert.Same(t, a, single)

	_, err = NewMultiloggerAdapter(nil)
	assert.Error(t, err)
}
