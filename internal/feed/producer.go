package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/present"
)

const batchTimeout = 5 * time.Millisecond

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// KafkaProducer lazily manages writers per topic.
type KafkaProducer struct {
	brokers []string
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewKafkaProducer creates a KafkaProducer.
func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		brokers: brokers,
		writers: make(map[string]*kafka.Writer),
	}
}

// WriteMessages writes messages to the given topic, creating a writer if necessary.
func (p *KafkaProducer) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	return p.writerForTopic(topic).WriteMessages(ctx, msgs...)
}

func (p *KafkaProducer) writerForTopic(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}

	// One partition key per workout keeps a workout's commands ordered.
	// Writes are synchronous and on the request path, so batches flush after
	// a few milliseconds instead of the one second default.
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	}
	p.writers[topic] = writer
	return writer
}

// Close releases all writers.
func (p *KafkaProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}

// Publisher turns render requests from the log controller into feed events.
// It satisfies domain.MapDisplay, domain.ListRenderer and
// domain.StartupRenderer.
type Publisher struct {
	writer messageWriter
	topic  string
	now    func() time.Time
}

// NewPublisher constructs a Publisher writing to topic.
func NewPublisher(writer messageWriter, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{writer: writer, topic: topic, now: func() time.Time { return time.Now().UTC() }}
}

// RenderMarker publishes a marker.render event.
func (p *Publisher) RenderMarker(ctx context.Context, workout domain.Workout) error {
	return p.publish(ctx, p.markerMessage(workout))
}

// CenterOn publishes a map.center event.
func (p *Publisher) CenterOn(ctx context.Context, coords domain.Coordinates, opts domain.ViewOptions) error {
	return p.publish(ctx, p.centerMessage(coords, opts))
}

// RenderListItem publishes a list.render event.
func (p *Publisher) RenderListItem(ctx context.Context, workout domain.Workout) error {
	return p.publish(ctx, p.listMessage(workout))
}

// RenderStartup publishes the list items, then the initial view and the
// markers when center is set, in a single write.
func (p *Publisher) RenderStartup(ctx context.Context, workouts []domain.Workout, center *domain.Coordinates, opts domain.ViewOptions) error {
	events := make([]pending, 0, 2*len(workouts)+1)
	for _, w := range workouts {
		events = append(events, p.listMessage(w))
	}
	if center != nil {
		events = append(events, p.centerMessage(*center, opts))
		for _, w := range workouts {
			events = append(events, p.markerMessage(w))
		}
	}
	if len(events) == 0 {
		return nil
	}
	return p.publish(ctx, events...)
}

// pending is an event waiting to be encoded.
type pending struct {
	eventType string
	key       string
	payload   any
}

func (p *Publisher) markerMessage(workout domain.Workout) pending {
	return pending{EventMarkerRender, workout.ID, MarkerRender{
		Marker:     present.MarkerFor(workout),
		OccurredAt: p.now(),
	}}
}

func (p *Publisher) centerMessage(coords domain.Coordinates, opts domain.ViewOptions) pending {
	return pending{EventMapCenter, "", MapCenter{
		Position:      coords,
		Zoom:          opts.Zoom,
		Animate:       opts.Animate,
		PanDurationMS: opts.PanDuration.Milliseconds(),
		OccurredAt:    p.now(),
	}}
}

func (p *Publisher) listMessage(workout domain.Workout) pending {
	return pending{EventListRender, workout.ID, ListRender{
		Item:       present.ListItemFor(workout),
		OccurredAt: p.now(),
	}}
}

func (p *Publisher) publish(ctx context.Context, events ...pending) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, evt := range events {
		body, err := json.Marshal(evt.payload)
		if err != nil {
			return err
		}

		eventID := uuid.NewString()
		key := evt.key
		if key == "" {
			key = eventID
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(key),
			Value: body,
			Time:  p.now(),
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(evt.eventType)},
				{Key: "event_id", Value: []byte(eventID)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, p.topic, msgs...); err != nil {
		for _, evt := range events {
			recordPublishError(evt.eventType)
		}
		return err
	}
	for _, evt := range events {
		recordPublished(evt.eventType)
	}
	return nil
}
