package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func producerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	return cfg
}

func TestKafkaPublisher_SendsJSON(t *testing.T) {
	producer := mocks.NewSyncProducer(t, producerConfig())
	id := uuid.New()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got map[string]any
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got["type"] != string(DoctorAdded) || got["doctor_id"] != id.String() {
			return errors.New("unexpected payload: " + string(val))
		}
		if got["occurred_at"] != "2024-05-01T10:00:00Z" {
			return errors.New("unexpected timestamp: " + string(val))
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "clinic.doctors")
	err := pub.Publish(context.Background(), Event{
		Type:       DoctorAdded,
		DoctorID:   id,
		Surname:    "Ivanov",
		Name:       "Ivan",
		OccurredAt: at,
	})
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, producerConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "clinic.doctors")
	err := pub.Publish(context.Background(), Event{Type: DoctorsReplaced, Count: 3})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_CanceledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, producerConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pub := NewKafkaPublisherWithProducer(producer, "clinic.doctors")
	assert.ErrorIs(t, pub.Publish(ctx, Event{Type: DoctorDeleted}), context.Canceled)
	require.NoError(t, pub.Close())
}

func TestNopPublisher(t *testing.T) {
	var pub Publisher = NopPublisher{}
	assert.NoError(t, pub.Publish(context.Background(), Event{Type: DoctorAdded}))
	assert.NoError(t, pub.Close())
}
