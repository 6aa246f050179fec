package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"loanflow/internal/core/domain"
	"loanflow/internal/pkg/logging"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishDecision(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaDecisionPublisher(w, "loan.decisions", logging.Discard())

	score := 0.4822
	evt := domain.DecisionEvent{
		ApplicationID:    "app-1",
		CustomerID:       "cust-1",
		OfficerID:        "off-1",
		Status:           domain.StatusApproved,
		EligibilityScore: &score,
		AmountRequested:  50000,
		DecidedAt:        time.Now().UTC(),
	}
	require.NoError(t, p.PublishDecision(context.Background(), evt))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, []byte("app-1"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "loan.application.decided", string(msg.Headers[0].Value))

	var decoded domain.DecisionEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, domain.StatusApproved, decoded.Status)
	assert.Equal(t, 0.4822, *decoded.EligibilityScore)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishDecisionWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newKafkaDecisionPublisher(w, "loan.decisions", logging.Discard())

	err := p.PublishDecision(context.Background(), domain.DecisionEvent{ApplicationID: "app-1"})
	assert.ErrorContains(t, err, "broker down")
}
