package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_NoBrokers(t *testing.T) {
	t.Parallel()

	p, err := NewProducer(nil)
	require.Error(t, err)
	assert.Nil(t, p)
}

func TestPublishEvent_UnencodableEvent(t *testing.T) {
	t.Parallel()

	p, err := NewProducer([]string{"127.0.0.1:1"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	err = p.PublishEvent(context.Background(), TopicUsers, "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}

func TestIncidentEvent_JSON(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	raw, err := json.Marshal(IncidentEvent{Type: TypeIncidentCreated, IncidentID: 7, UserID: 3, Status: "submitted", Title: "t", At: at})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "incident_created", got["type"])
	assert.EqualValues(t, 7, got["incidentID"])
	assert.Equal(t, "2024-01-02T03:04:05Z", got["at"])
}
