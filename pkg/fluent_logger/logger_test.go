package fluentlogger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{Port: 24224})
	assert.Error(t, err)

	_, err = NewClient(Config{Host: "localhost"})
	assert.Error(t, err)
}

func TestNewClient_AsyncDoesNotDial(t *testing.T) {
	client, err := NewClient(Config{Host: "127.0.0.1", Port: 1})
	require.NoError(t, err)
	defer client.Close()
}
