//go:build integration

package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkaContainer "github.com/testcontainers/testcontainers-go/modules/kafka"

	"example.com/workoutlog/internal/domain"
)

func TestKafkaPublisherFeedsProcessor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	kafkaC, err := kafkaContainer.RunContainer(ctx, testcontainers.WithEnv(map[string]string{
		"KAFKA_AUTO_CREATE_TOPICS_ENABLE": "true",
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kafkaC.Terminate(context.Background()) })

	brokers, err := kafkaC.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)

	topic := "workout_display_it"

	conn, err := kafka.Dial("tcp", brokers[0])
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))

	producer := NewKafkaProducer(brokers)
	defer producer.Close()
	pub := NewPublisher(producer, topic)

	w, err := domain.NewRunning(domain.Coordinates{Lat: 51.5, Lng: -0.12}, 5.2, 26, 178, time.Now())
	require.NoError(t, err)
	require.NoError(t, pub.RenderMarker(ctx, w))
	require.NoError(t, pub.RenderListItem(ctx, w))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     "feed-integration",
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	handler := &collectingHandler{}
	consumerCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		_ = NewProcessor(reader, handler).Run(consumerCtx)
	}()

	require.Eventually(t, func() bool {
		return len(handler.types()) >= 2
	}, 60*time.Second, 500*time.Millisecond)

	require.Equal(t, []string{EventMarkerRender, EventListRender}, handler.types()[:2])
}

type collectingHandler struct {
	mu   sync.Mutex
	seen []string
}

func (h *collectingHandler) Handle(_ context.Context, msg Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, msg.EventType)
	return nil
}

func (h *collectingHandler) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.seen...)
}
