// Package events publishes and consumes Company change events on Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gartstein/companies/internal/company/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	CompanyCreated  EventType = "company_created"
	CompanyUpdated  EventType = "company_updated"
	CompanyDeleted  EventType = "company_deleted"
	CompaniesPurged EventType = "companies_purged"
)

// purgeKey keys events that concern every company rather than one.
const purgeKey = "*"

const (
	defaultQueueSize    = 1000
	defaultDrainTimeout = 5 * time.Second
)

type Event struct {
	Type    EventType       `json:"type"`
	Company *models.Company `json:"company,omitempty"`
	// Actor is the token subject that caused the change; empty when anonymous.
	Actor string `json:"actor,omitempty"`
}

// Key returns the partitioning key of the event.
func (e Event) Key() string {
	if e.Company == nil {
		return purgeKey
	}
	return e.Company.ID
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter // Use interface instead of concrete type
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
	// loopDone is closed when the event loop exits; nil if it never started.
	loopDone     chan struct{}
	drainTimeout time.Duration
}

// NewProducer makes sure topic exists and starts a producer writing to it.
func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	// Create topic if it doesn't exist
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
	}

	err = conn.CreateTopics(topicConfigs...)
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	p := newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
		Topic:    topic,
	}, logger, defaultQueueSize)

	p.start()
	return p, nil
}

func newProducer(writer KafkaWriter, logger *zap.Logger, queueSize int) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan Event, queueSize), // Buffered channel
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),

		drainTimeout: defaultDrainTimeout,
	}
}

func (p *Producer) start() {
	p.loopDone = make(chan struct{})
	go func() {
		defer close(p.loopDone)
		p.eventLoop()
	}()
}

// Produce queues an event without blocking. A nil company marks a purge event.
func (p *Producer) Produce(eventType EventType, company *models.Company, actor string) {
	event := Event{Type: eventType, Company: company, Actor: actor}
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("company_id", event.Key()),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("company_id", event.Key()),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key()),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("company_id", event.Key()),
		)
		return
	}
}

// Close stops the event loop, flushes queued events within the drain
// timeout and closes the writer.
func (p *Producer) Close() {
	close(p.closeChan)
	if p.loopDone != nil {
		<-p.loopDone
	}
	p.drain()
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// drain writes whatever is still queued. Events left when the timeout
// expires are dropped and counted in the log.
func (p *Producer) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), p.drainTimeout)
	defer cancel()

	for {
		select {
		case event := <-p.events:
			if ctx.Err() != nil {
				p.logger.Warn("Kafka producer closed with queued events, dropping them",
					zap.Int("dropped", len(p.events)+1),
				)
				return
			}
			p.sendEvent(ctx, event)
		default:
			return
		}
	}
}
