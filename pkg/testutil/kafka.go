package testutil

import (
	"context"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

const kafkaImage = "confluentinc/confluent-local:7.6.1"

// Kafka is a single-node KRaft broker that lives for the duration of a test.
type Kafka struct {
	Container *kafka.KafkaContainer
	Brokers   []string
}

// StartKafka runs a broker and registers its teardown with t.Cleanup.
func StartKafka(ctx context.Context, t *testing.T) *Kafka {
	t.Helper()

	container, err := kafka.Run(ctx, kafkaImage, kafka.WithClusterID("riskd-test"))
	if err != nil {
		t.Fatalf("failed to start kafka container: %v", err)
	}
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(stopCtx); err != nil {
			t.Logf("warning: failed to terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	if err != nil {
		t.Fatalf("failed to get kafka brokers: %v", err)
	}
	return &Kafka{Container: container, Brokers: brokers}
}

// ReadMessages reads n messages from partition 0 of topic, failing the test
// if they do not arrive before ctx is done.
func (k *Kafka) ReadMessages(ctx context.Context, t *testing.T, topic string, n int) []kafkago.Message {
	t.Helper()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   k.Brokers,
		Topic:     topic,
		Partition: 0,
		MaxWait:   500 * time.Millisecond,
	})
	defer reader.Close()

	msgs := make([]kafkago.Message, 0, n)
	for len(msgs) < n {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			t.Fatalf("read %d of %d messages from %s: %v", len(msgs), n, topic, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs
}
