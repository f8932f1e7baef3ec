package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/spotavibe/spotavibe/pkg/domain/events"
	"github.com/spotavibe/spotavibe/pkg/eventbus"
)

const (
	defaultTopicPrefix = "spotavibe.events"
	defaultGroupID     = "spotavibe"
	fetchBackoff       = 500 * time.Millisecond
	deliveryAttempts   = 3
	retryBackoff       = 200 * time.Millisecond
)

// KafkaConfig configures the Kafka bus.
type KafkaConfig struct {
	// Brokers is a comma-separated host:port list.
	Brokers     string
	GroupID     string
	TopicPrefix string
	DialTimeout time.Duration
}

func (c KafkaConfig) withDefaults() KafkaConfig {
	if strings.TrimSpace(c.GroupID) == "" {
		c.GroupID = defaultGroupID
	}
	if strings.TrimSpace(c.TopicPrefix) == "" {
		c.TopicPrefix = defaultTopicPrefix
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	return c
}

// KafkaEventBus publishes every event type to its own topic. Each instance
// joins one consumer group, so a registered handler sees an event once per
// group rather than once per process.
type KafkaEventBus struct {
	cfg     KafkaConfig
	brokers []string
	dialer  *kafka.Dialer
	writer  *kafka.Writer
	logger  *slog.Logger

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	closed sync.Once

	mu        sync.RWMutex
	handlers  map[events.EventType][]eventbus.HandlerFunc
	consumers map[events.EventType]*kafka.Reader
}

// NewWithKafka connects to the first reachable broker and returns a bus
// ready to publish. Consumers start lazily on Register.
func NewWithKafka(logger *slog.Logger, cfg KafkaConfig) (*KafkaEventBus, error) {
	brokers := splitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, errors.New("kafka event bus: no brokers configured")
	}
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	dialer := &kafka.Dialer{Timeout: cfg.DialTimeout}
	if err := probe(dialer, brokers); err != nil {
		return nil, fmt.Errorf("kafka event bus: %w", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	b := &KafkaEventBus{
		cfg:     cfg,
		brokers: brokers,
		dialer:  dialer,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		logger:    logger.With("bus", "kafka", "group_id", cfg.GroupID),
		ctx:       ctx,
		stop:      stop,
		handlers:  make(map[events.EventType][]eventbus.HandlerFunc),
		consumers: make(map[events.EventType]*kafka.Reader),
	}
	b.logger.Info("Kafka event bus ready", "brokers", brokers, "topic_prefix", cfg.TopicPrefix)
	return b, nil
}

func probe(dialer *kafka.Dialer, brokers []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), dialer.Timeout)
	defer cancel()

	var errs []error
	for _, addr := range brokers {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			return conn.Close()
		}
		errs = append(errs, fmt.Errorf("%s: %w", addr, err))
	}
	return fmt.Errorf("no broker reachable: %w", errors.Join(errs...))
}

// Register adds a handler and starts the consumer for its topic if needed.
func (b *KafkaEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	if _, running := b.consumers[eventType]; running {
		return
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     b.brokers,
		GroupID:     b.cfg.GroupID,
		Topic:       b.topic(eventType),
		Dialer:      b.dialer,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    1 << 20,
		MaxWait:     time.Second,
	})
	b.consumers[eventType] = reader

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consume(eventType, reader)
	}()
}

// Emit publishes the event. Events that expose a partition key keep their
// relative order per key.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	value, err := encodeEnvelope(event)
	if err != nil {
		return err
	}
	eventType := events.EventType(event.Type())
	msg := kafka.Message{
		Topic: b.topic(eventType),
		Key:   []byte(partitionKey(event)),
		Value: value,
		Time:  time.Now().UTC(),
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: publish %s: %w", eventType, err)
	}
	return nil
}

// Close stops the consumers, waits for in-flight handlers and flushes
// pending writes.
func (b *KafkaEventBus) Close() error {
	var err error
	b.closed.Do(func() {
		b.stop()

		b.mu.Lock()
		for _, r := range b.consumers {
			_ = r.Close()
		}
		b.mu.Unlock()

		b.wg.Wait()
		err = b.writer.Close()
	})
	return err
}

func (b *KafkaEventBus) consume(eventType events.EventType, reader *kafka.Reader) {
	log := b.logger.With("topic", reader.Config().Topic)
	for {
		msg, err := reader.FetchMessage(b.ctx)
		if err != nil {
			if b.ctx.Err() != nil {
				return
			}
			log.Error("Kafka fetch failed", "error", err)
			select {
			case <-b.ctx.Done():
				return
			case <-time.After(fetchBackoff):
			}
			continue
		}

		b.deliverWithRetry(eventType, msg)

		if err := reader.CommitMessages(b.ctx, msg); err != nil && b.ctx.Err() == nil {
			log.Error("Kafka commit failed", "error", err, "partition", msg.Partition, "offset", msg.Offset)
		}
	}
}

// deliverWithRetry retries a message whose handlers failed before its
// offset is committed. Handlers must tolerate a repeat: side effects that
// must not run twice go behind WithIdempotency. When every attempt fails
// the message is committed anyway; consumers of settled events rely on
// cache TTLs to converge.
func (b *KafkaEventBus) deliverWithRetry(eventType events.EventType, msg kafka.Message) {
	backoff := retryBackoff
	for attempt := 1; ; attempt++ {
		err := b.deliver(eventType, msg)
		if err == nil {
			return
		}
		if attempt == deliveryAttempts {
			b.logger.Error("Giving up on message after retries",
				"error", err, "attempts", attempt, "topic", msg.Topic, "offset", msg.Offset)
			return
		}
		select {
		case <-b.ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

// deliver decodes one message and runs the handlers for its type. Poison
// messages are logged and reported as delivered so they do not block the
// partition.
func (b *KafkaEventBus) deliver(expected events.EventType, msg kafka.Message) error {
	event, err := decodeEnvelope(msg.Value)
	if err != nil {
		b.logger.Error("Dropping undecodable message", "error", err, "topic", msg.Topic, "offset", msg.Offset)
		return nil
	}
	eventType := events.EventType(event.Type())
	if eventType != expected {
		b.logger.Warn("Event type does not match topic", "expected", expected, "actual", eventType)
	}

	b.mu.RLock()
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[eventType]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := dispatch(b.ctx, b.logger, event, h); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *KafkaEventBus) topic(eventType events.EventType) string {
	return b.cfg.TopicPrefix + "." + strings.ToLower(eventType.String())
}

func partitionKey(event events.Event) string {
	if k, ok := event.(events.Keyed); ok {
		if key := k.PartitionKey(); key != "" {
			return key
		}
	}
	return event.Type()
}

func splitBrokers(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
