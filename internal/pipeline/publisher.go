package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ismaiel54/itch50-decoder/internal/filter"
	"github.com/ismaiel54/itch50-decoder/internal/itch"
	"github.com/ismaiel54/itch50-decoder/internal/msg"
	"github.com/ismaiel54/itch50-decoder/internal/observability"
	"github.com/ismaiel54/itch50-decoder/internal/render"
	"github.com/ismaiel54/itch50-decoder/internal/stats"
	"github.com/ismaiel54/itch50-decoder/internal/store"
)

// Producer is the subset of msg.Producer the publisher needs
type Producer interface {
	PublishRecord(ctx context.Context, topic string, key, value []byte, headers []msg.Header, done func(error))
	Flush(ctx context.Context) error
}

// Options controls a publish run
type Options struct {
	Topic           string
	Mode            itch.Mode
	Filter          *filter.Filter
	CheckpointEvery int
}

// Result summarizes a publish run
type Result struct {
	SessionID string
	CaptureID string
	// Resumed is the checkpoint the run started from.
	Resumed   int64
	Decoded   int64
	Filtered  int64
	Published int64
	Summary   stats.Summary
}

// Publisher decodes a capture and publishes every record as JSON to Kafka
type Publisher struct {
	producer Producer
	store    *store.Store
	logger   *zap.Logger
	opts     Options
	progress *observability.Progress
}

// NewPublisher creates a publisher. store may be nil, in which case runs
// neither resume nor record capture sessions.
func NewPublisher(producer Producer, st *store.Store, opts Options, logger *zap.Logger) *Publisher {
	if opts.Topic == "" {
		opts.Topic = msg.TopicMessages
	}
	if opts.CheckpointEvery <= 0 {
		opts.CheckpointEvery = 10000
	}
	return &Publisher{
		producer: producer,
		store:    st,
		logger:   logger,
		opts:     opts,
		progress: &observability.Progress{},
	}
}

// Progress exposes live counters for /progress
func (p *Publisher) Progress() *observability.Progress {
	return p.progress
}

// Publish runs the capture at path, whose bytes are data. Records before
// the stored checkpoint are decoded but not republished. A framing
// violation stops the run after flushing what was already produced.
func (p *Publisher) Publish(ctx context.Context, path string, data []byte) (Result, error) {
	size := int64(len(data))
	res := Result{SessionID: uuid.NewString()}
	p.progress.SetTotalBytes(size)

	var captureID string
	if p.store != nil {
		cp, ok, err := p.store.Checkpoint(ctx, path, size)
		if err != nil {
			return res, err
		}
		if ok {
			res.Resumed = cp.PublishedRecords
		}
		c, err := p.store.BeginCapture(ctx, path, size, p.opts.Mode)
		if err != nil {
			return res, err
		}
		captureID = c.ID
		res.CaptureID = c.ID
	}

	p.logger.Info("publishing capture",
		zap.String("path", path),
		zap.Int64("size_bytes", size),
		zap.String("mode", p.opts.Mode.String()),
		zap.String("topic", p.opts.Topic),
		zap.String("session_id", res.SessionID),
		zap.Int64("resume_from", res.Resumed),
		zap.Stringer("filter", p.opts.Filter),
	)

	collector := stats.NewCollector(stats.DefaultSampleSize)
	dec := itch.NewDecoder(data, p.opts.Mode)
	sessionID := []byte(res.SessionID)
	sinceCheckpoint := 0
	// settled is the highest seq that was handed to the producer or
	// filtered out; records past it are republished on resume.
	settled := res.Resumed

	var runErr error
	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		ok, err := dec.Advance()
		if err != nil {
			var fe *itch.FramingError
			if errors.As(err, &fe) {
				observability.RecordFramingError(fe.Kind.String())
			}
			runErr = err
			break
		}
		if !ok {
			break
		}

		rec := dec.Current()
		seq := int64(dec.Count())
		res.Decoded++
		collector.Observe(&rec)
		observability.RecordDecoded(rec.Kind.String())
		p.progress.AddDecoded()
		p.progress.SetOffset(int64(dec.Offset()))

		if rec.Kind == itch.KindStockDirectory && p.store != nil {
			if err := p.store.UpsertStockDirectory(ctx, captureID, store.StockEntryFrom(&rec.StockDirectory)); err != nil {
				runErr = err
				break
			}
		}

		if seq <= res.Resumed {
			observability.RecordSkipped()
			p.progress.AddSkipped()
			continue
		}

		matched, err := p.opts.Filter.Match(rec)
		if err != nil {
			runErr = err
			break
		}
		if !matched {
			res.Filtered++
			observability.RecordSkipped()
			p.progress.AddSkipped()
		} else {
			value, err := render.AppendJSON(nil, &rec)
			if err != nil {
				runErr = fmt.Errorf("failed to encode record %d: %w", seq, err)
				break
			}
			tag := rec.MessageType()
			headers := []msg.Header{
				{Key: msg.HeaderSessionID, Value: sessionID},
				{Key: msg.HeaderSeq, Value: strconv.AppendInt(nil, seq, 10)},
				{Key: msg.HeaderType, Value: []byte{byte(tag)}},
			}
			key := strconv.AppendUint(nil, uint64(rec.Header().StockLocate), 10)
			p.producer.PublishRecord(ctx, p.opts.Topic, key, value, headers, p.ack)
			res.Published++
		}
		settled = seq

		sinceCheckpoint++
		if sinceCheckpoint >= p.opts.CheckpointEvery {
			if err := p.checkpoint(ctx, path, size, settled); err != nil {
				runErr = err
				break
			}
			sinceCheckpoint = 0
		}
	}

	// Settle in-flight records even when ctx is done.
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := p.checkpoint(flushCtx, path, size, settled); err != nil && runErr == nil {
		runErr = err
	}

	res.Summary = collector.Summary()
	if p.store != nil {
		if err := p.store.FinishCapture(flushCtx, captureID, int64(res.Summary.Total), res.Summary.Counts()); err != nil && runErr == nil {
			runErr = err
		}
	}

	fields := []zap.Field{
		zap.String("session_id", res.SessionID),
		zap.Int64("decoded", res.Decoded),
		zap.Int64("published", res.Published),
		zap.Int64("filtered", res.Filtered),
		zap.Int64("resumed", res.Resumed),
	}
	if runErr != nil {
		p.logger.Error("publish stopped", append(fields, zap.Error(runErr))...)
		return res, runErr
	}
	p.logger.Info("published capture", fields...)
	return res, nil
}

// checkpoint flushes the producer and records that the first seq records
// of the capture are settled.
func (p *Publisher) checkpoint(ctx context.Context, path string, size, seq int64) error {
	if err := p.producer.Flush(ctx); err != nil {
		return err
	}
	if p.store == nil {
		return nil
	}
	if err := p.store.SaveCheckpoint(ctx, path, size, seq); err != nil {
		return err
	}
	p.logger.Debug("checkpoint saved", zap.String("path", path), zap.Int64("records", seq))
	return nil
}

func (p *Publisher) ack(err error) {
	if err != nil {
		observability.RecordPublishError()
		p.progress.AddFailed()
		return
	}
	observability.RecordPublished()
	p.progress.AddPublished()
}
