package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/reazulhasan44/MangoRestaurent/services/order-service/metrics"
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/services"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Dead-letter headers, so the original coordinates and failure cause travel
// with the message.
const (
	HeaderOriginalTopic     = "x-original-topic"
	HeaderOriginalPartition = "x-original-partition"
	HeaderOriginalOffset    = "x-original-offset"
	HeaderFailureStage      = "x-failure-stage"
	HeaderErrorMessage      = "x-error-message"
)

// MessageProcessor handles one delivered message body.
type MessageProcessor interface {
	Process(ctx context.Context, payload []byte) error
}

// offsetCommitter acknowledges a fully-handled message. Satisfied by
// *kafka.Reader.
type offsetCommitter interface {
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// deadLetterPublisher forwards a poisoned message. Satisfied by
// *kafka.Writer.
type deadLetterPublisher interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumerConfig resolves the checkout subscription from service config.
type ConsumerConfig struct {
	Brokers         []string
	Topic           string
	GroupID         string
	DeadLetterTopic string
	MaxAttempts     int
}

// CheckoutConsumer owns the checkout subscription. It pulls messages,
// drives the processor with a bounded retry budget, forwards poisoned
// messages to the dead-letter topic, and commits offsets only once a
// message is fully handled. Start and Stop are the only control operations.
type CheckoutConsumer struct {
	reader      *kafkago.Reader
	dlWriter    *kafkago.Writer
	committer   offsetCommitter
	dlPublisher deadLetterPublisher
	processor   MessageProcessor
	topic       string
	dltTopic    string
	maxAttempts int
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewCheckoutConsumer(cfg ConsumerConfig, processor MessageProcessor, logger *zap.Logger) *CheckoutConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	dlWriter := &kafkago.Writer{
		Addr:     kafkago.TCP(cfg.Brokers...),
		Topic:    cfg.DeadLetterTopic,
		Balancer: &kafkago.LeastBytes{},
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &CheckoutConsumer{
		reader:      reader,
		dlWriter:    dlWriter,
		committer:   reader,
		dlPublisher: dlWriter,
		processor:   processor,
		topic:       cfg.Topic,
		dltTopic:    cfg.DeadLetterTopic,
		maxAttempts: maxAttempts,
		backoff:     linearBackoff,
		logger:      logger,
	}
}

// Start begins pulling from the subscription. It may be called once.
func (c *CheckoutConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return fmt.Errorf("checkout consumer already started")
	}
	c.started = true

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.run(runCtx)

	c.logger.Info("checkout consumer started",
		zap.String("topic", c.topic),
		zap.String("dead_letter_topic", c.dltTopic),
		zap.Int("max_attempts", c.maxAttempts),
	)
	return nil
}

// Stop halts delivery and releases the subscription. In-flight handling is
// allowed to finish. Valid only after a successful Start.
func (c *CheckoutConsumer) Stop() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return fmt.Errorf("checkout consumer not started")
	}
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	c.mu.Unlock()

	c.cancel()
	err := c.reader.Close()
	c.wg.Wait()
	if dlErr := c.dlWriter.Close(); err == nil {
		err = dlErr
	}
	c.logger.Info("checkout consumer stopped", zap.String("topic", c.topic))
	return err
}

func (c *CheckoutConsumer) run(ctx context.Context) {
	defer c.wg.Done()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			// Broker-side delivery errors must not kill the subscription.
			c.logger.Error("broker fetch error", zap.String("topic", c.topic), zap.Error(err))
			continue
		}

		c.handle(ctx, msg)
	}
}

// handle drives one message through the processor. The offset is committed
// only after the message succeeded or was dead-lettered; a commit never
// happens between a successful persist and a failed publish.
func (c *CheckoutConsumer) handle(ctx context.Context, msg kafkago.Message) {
	timer := time.Now()
	defer func() {
		metrics.ProcessingDuration.Observe(time.Since(timer).Seconds())
	}()

	procErr := c.processWithRetry(ctx, msg)
	if procErr == nil {
		c.commit(ctx, msg)
		metrics.MessagesProcessed.Inc()
		return
	}
	if ctx.Err() != nil {
		// Shutting down mid-message: leave it unacknowledged for redelivery.
		return
	}

	if err := c.deadLetter(ctx, msg, procErr); err != nil {
		c.logger.Error("dead-letter publish failed, leaving message unacknowledged",
			zap.String("topic", c.topic),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return
	}
	metrics.MessagesDeadLettered.Inc()
	c.commit(ctx, msg)
}

func (c *CheckoutConsumer) processWithRetry(ctx context.Context, msg kafkago.Message) *services.ProcessingError {
	var procErr *services.ProcessingError

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err := c.processor.Process(ctx, msg.Value)
		if err == nil {
			return nil
		}

		if !errors.As(err, &procErr) {
			procErr = &services.ProcessingError{Stage: services.StagePersist, Err: err}
		}
		metrics.MessagesFailed.WithLabelValues(string(procErr.Stage)).Inc()
		c.logger.Error("checkout message processing failed",
			zap.String("stage", string(procErr.Stage)),
			zap.Int("attempt", attempt),
			zap.Int64("offset", msg.Offset),
			zap.Error(procErr.Err),
		)

		if !procErr.Retryable() || attempt == c.maxAttempts {
			return procErr
		}

		select {
		case <-ctx.Done():
			return procErr
		case <-time.After(c.backoff(attempt)):
		}
	}
	return procErr
}

func (c *CheckoutConsumer) commit(ctx context.Context, msg kafkago.Message) {
	if err := c.committer.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("offset commit failed",
			zap.String("topic", c.topic),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
	}
}

func (c *CheckoutConsumer) deadLetter(ctx context.Context, msg kafkago.Message, procErr *services.ProcessingError) error {
	c.logger.Warn("routing checkout message to dead-letter topic",
		zap.String("stage", string(procErr.Stage)),
		zap.Int64("offset", msg.Offset),
	)
	return c.dlPublisher.WriteMessages(ctx, deadLetterMessage(msg, procErr))
}

// deadLetterMessage copies the original payload and records where it came
// from and why it failed.
func deadLetterMessage(msg kafkago.Message, procErr *services.ProcessingError) kafkago.Message {
	return kafkago.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Headers: []kafkago.Header{
			{Key: HeaderOriginalTopic, Value: []byte(msg.Topic)},
			{Key: HeaderOriginalPartition, Value: []byte(strconv.Itoa(msg.Partition))},
			{Key: HeaderOriginalOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
			{Key: HeaderFailureStage, Value: []byte(procErr.Stage)},
			{Key: HeaderErrorMessage, Value: []byte(procErr.Err.Error())},
		},
	}
}

func linearBackoff(attempt int) time.Duration {
	return time.Duration(attempt) * time.Second
}
