package msg

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mailru/easyjson"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// Producer wraps a Kafka producer
type Producer struct {
	client       *kgo.Client
	logger       *zap.Logger
	produceCount int64
	errorCount   int64

	errMu    sync.Mutex
	asyncErr error

	stop chan struct{}
	once sync.Once
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg Config, logger *zap.Logger) (*Producer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(5 * time.Millisecond),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	if cfg.MaxBufferedRecords > 0 {
		opts = append(opts, kgo.MaxBufferedRecords(cfg.MaxBufferedRecords))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	p := &Producer{
		client: client,
		logger: logger,
		stop:   make(chan struct{}),
	}

	logger.Info("producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("client_id", cfg.ClientID),
	)

	go p.logStats()

	return p, nil
}

// PublishRecord produces asynchronously. It blocks only while the buffer
// is full. done, if non-nil, is called once the broker acknowledges or
// rejects the record. Delivery failures are also reported by Flush.
func (p *Producer) PublishRecord(ctx context.Context, topic string, key, value []byte, headers []Header, done func(error)) {
	record := &kgo.Record{
		Topic: topic,
		Key:   key,
		Value: value,
	}
	if len(headers) > 0 {
		record.Headers = make([]kgo.RecordHeader, len(headers))
		for i, h := range headers {
			record.Headers[i] = kgo.RecordHeader{Key: h.Key, Value: h.Value}
		}
	}

	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			atomic.AddInt64(&p.errorCount, 1)
			p.setErr(err)
		} else {
			atomic.AddInt64(&p.produceCount, 1)
		}
		if done != nil {
			done(err)
		}
	})
}

func (p *Producer) setErr(err error) {
	p.errMu.Lock()
	if p.asyncErr == nil {
		p.asyncErr = err
	}
	p.errMu.Unlock()
}

// Flush waits for every buffered record and returns the first delivery
// failure seen since the producer was created.
func (p *Producer) Flush(ctx context.Context) error {
	if err := p.client.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush producer: %w", err)
	}
	p.errMu.Lock()
	defer p.errMu.Unlock()
	if p.asyncErr != nil {
		return fmt.Errorf("failed to produce message: %w", p.asyncErr)
	}
	return nil
}

// ProduceJSON produces a JSON message to the specified topic
func (p *Producer) ProduceJSON(ctx context.Context, topic string, key string, v any) error {
	data, err := marshal(v)
	if err != nil {
		atomic.AddInt64(&p.errorCount, 1)
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}

	// Synchronous produce with timeout
	produceCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result := p.client.ProduceSync(produceCtx, record)
	if result.FirstErr() != nil {
		atomic.AddInt64(&p.errorCount, 1)
		return fmt.Errorf("failed to produce message: %w", result.FirstErr())
	}

	atomic.AddInt64(&p.produceCount, 1)
	return nil
}

func marshal(v any) ([]byte, error) {
	if m, ok := v.(easyjson.Marshaler); ok {
		return easyjson.Marshal(m)
	}
	return json.Marshal(v)
}

// Ping checks that at least one broker is reachable
func (p *Producer) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach kafka: %w", err)
	}
	return nil
}

// Stats returns acknowledged and failed record counts
func (p *Producer) Stats() (produced, failed int64) {
	return atomic.LoadInt64(&p.produceCount), atomic.LoadInt64(&p.errorCount)
}

// Close closes the producer
func (p *Producer) Close() {
	p.once.Do(func() { close(p.stop) })
	if p.client != nil {
		p.client.Close()
	}
}

// logStats logs producer statistics periodically
func (p *Producer) logStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			produced, failed := p.Stats()
			p.logger.Info("producer stats",
				zap.Int64("produced", produced),
				zap.Int64("errors", failed),
			)
		}
	}
}
