//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundchain/riskd/internal/domain/event"
	"github.com/fundchain/riskd/internal/infrastructure/kafka"
	"github.com/fundchain/riskd/pkg/events"
	pkgkafka "github.com/fundchain/riskd/pkg/kafka"
	"github.com/fundchain/riskd/pkg/testutil"
)

func TestPublisher_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := testutil.StartKafka(ctx, t)

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{Brokers: broker.Brokers, ClientID: "riskd-test"})
	require.NoError(t, err)
	defer producer.Close()

	const topic = "risk.events.it"
	pub := kafka.NewPublisher(producer, topic, testLogger())
	assessmentID := uuid.New()
	evt := event.NewProjectAssessed(assessmentID, 0.1, 0, 0, 0.06, "LOW", time.Now())

	require.Eventually(t, func() bool {
		return pub.Publish(ctx, evt) == nil
	}, 30*time.Second, time.Second)

	msgs := broker.ReadMessages(ctx, t, topic, 1)

	var env events.Envelope
	require.NoError(t, json.Unmarshal(msgs[0].Value, &env))
	assert.Equal(t, evt.EventID(), env.ID)
	assert.Equal(t, event.EventTypeProjectAssessed, env.EventType)
	assert.Equal(t, []byte(assessmentID.String()), msgs[0].Key)
}
