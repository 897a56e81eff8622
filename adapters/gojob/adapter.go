package gojob

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-waste-market/core"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/goliatone/go-job/queue/worker"
	glog "github.com/goliatone/go-logger/glog"
)

const (
	JobIDOrderDiscard = "market.order.discard"

	paramMemo = "memo"
)

// RetryPolicy defines queue retry bounds to avoid unbounded retry loops.
type RetryPolicy struct {
	MaxAttempts     int
	MaxDelay        time.Duration
	DeadLetterOnMax bool
}

// NormalizeAttempt enforces bounded retry behavior for a nack operation.
func (p RetryPolicy) NormalizeAttempt(opts queue.NackOptions, attempt int) queue.NackOptions {
	out := opts
	out.Reason = strings.TrimSpace(out.Reason)
	if out.Delay < 0 {
		out.Delay = 0
	}
	if p.MaxDelay > 0 && out.Delay > p.MaxDelay {
		out.Delay = p.MaxDelay
	}
	if out.DeadLetter {
		out.Requeue = false
	}
	if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
		out.Requeue = false
		if p.DeadLetterOnMax || out.DeadLetter {
			out.DeadLetter = true
		}
	}
	if !out.Requeue && !out.DeadLetter {
		out.Requeue = true
	}
	return out
}

// NewDiscardMessage builds the queue message that asks a worker to discard
// the pending order identified by memo. The idempotency key makes repeated
// enqueues for the same memo collapse into one job.
func NewDiscardMessage(memo uint64) *job.ExecutionMessage {
	return &job.ExecutionMessage{
		JobID: JobIDOrderDiscard,
		Parameters: map[string]any{
			paramMemo: strconv.FormatUint(memo, 10),
		},
		IdempotencyKey: fmt.Sprintf("%s:%d", JobIDOrderDiscard, memo),
	}
}

// MemoFromMessage extracts the pending order memo from a discard message.
func MemoFromMessage(msg *job.ExecutionMessage) (uint64, error) {
	if msg == nil {
		return 0, fmt.Errorf("gojob: execution message is required")
	}
	raw, ok := msg.Parameters[paramMemo]
	if !ok {
		return 0, fmt.Errorf("gojob: message %q has no memo parameter", msg.JobID)
	}
	switch value := raw.(type) {
	case string:
		memo, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil || memo == 0 {
			return 0, fmt.Errorf("gojob: invalid memo parameter %q", value)
		}
		return memo, nil
	case uint64:
		if value == 0 {
			return 0, fmt.Errorf("gojob: memo parameter is zero")
		}
		return value, nil
	case int64:
		if value <= 0 {
			return 0, fmt.Errorf("gojob: invalid memo parameter %d", value)
		}
		return uint64(value), nil
	case float64:
		if value <= 0 || value != float64(uint64(value)) {
			return 0, fmt.Errorf("gojob: invalid memo parameter %v", value)
		}
		return uint64(value), nil
	default:
		return 0, fmt.Errorf("gojob: unsupported memo parameter type %T", raw)
	}
}

// QueueTimeoutScheduler arms order expiry on process-local timers and hands
// the fired timeout to a job queue so a worker performs the discard. When the
// queue is unavailable the local callback runs instead, keeping the timeout
// contract intact.
type QueueTimeoutScheduler struct {
	enqueuer queue.Enqueuer
	timers   *core.TimerTimeoutScheduler
	logger   glog.Logger
}

func NewQueueTimeoutScheduler(enqueuer queue.Enqueuer, logger glog.Logger) *QueueTimeoutScheduler {
	return &QueueTimeoutScheduler{
		enqueuer: enqueuer,
		timers:   core.NewTimerTimeoutScheduler(),
		logger:   glog.Ensure(logger),
	}
}

func (s *QueueTimeoutScheduler) Arm(memo uint64, at time.Time, fire func()) error {
	if s == nil || s.timers == nil {
		return fmt.Errorf("gojob: timeout scheduler is not configured")
	}
	return s.timers.Arm(memo, at, func() {
		if s.enqueuer != nil {
			err := s.enqueuer.Enqueue(context.Background(), NewDiscardMessage(memo))
			if err == nil {
				return
			}
			s.logger.Error("enqueue discard job failed, running local discard", "memo", memo, "error", err)
		}
		if fire != nil {
			fire()
		}
	})
}

func (s *QueueTimeoutScheduler) Disarm(memo uint64) error {
	if s == nil || s.timers == nil {
		return fmt.Errorf("gojob: timeout scheduler is not configured")
	}
	return s.timers.Disarm(memo)
}

// DiscardService is the slice of the marketplace service the worker needs.
type DiscardService interface {
	DiscardExpiredOrder(ctx context.Context, memo uint64) (core.PendingOrder, bool)
}

// DiscardWorker processes discard deliveries coming off the queue. Malformed
// messages are dead-lettered; a memo whose order was already removed acks
// cleanly, matching the remove-if-present discipline of the pending table.
type DiscardWorker struct {
	service DiscardService
	policy  RetryPolicy
	logger  glog.Logger
}

func NewDiscardWorker(service DiscardService, policy RetryPolicy, logger glog.Logger) *DiscardWorker {
	return &DiscardWorker{
		service: service,
		policy:  policy,
		logger:  glog.Ensure(logger),
	}
}

func (w *DiscardWorker) Handle(ctx context.Context, delivery queue.Delivery) error {
	if w == nil || w.service == nil {
		return fmt.Errorf("gojob: discard service is not configured")
	}
	if delivery == nil {
		return fmt.Errorf("gojob: delivery is required")
	}

	memo, err := MemoFromMessage(delivery.Message())
	if err != nil {
		w.logger.Error("discard delivery rejected", "error", err)
		return delivery.Nack(ctx, w.policy.NormalizeAttempt(queue.NackOptions{
			DeadLetter: true,
			Reason:     err.Error(),
		}, w.policy.MaxAttempts))
	}

	order, discarded := w.service.DiscardExpiredOrder(ctx, memo)
	if discarded {
		w.logger.Info("expired order discarded", "memo", memo, "listing_id", order.ListingID)
	}
	return delivery.Ack(ctx)
}

// MetricsHook reports worker lifecycle events through the marketplace metrics
// recorder.
type MetricsHook struct {
	metrics core.MetricsRecorder
	logger  glog.Logger
}

func NewMetricsHook(metrics core.MetricsRecorder, logger glog.Logger) *MetricsHook {
	if metrics == nil {
		metrics = core.NopMetricsRecorder{}
	}
	return &MetricsHook{metrics: metrics, logger: glog.Ensure(logger)}
}

func (h *MetricsHook) OnStart(ctx context.Context, event worker.Event) {
	if h == nil {
		return
	}
	h.metrics.IncCounter(ctx, "market.jobs.started", 1, eventTags(event))
}

func (h *MetricsHook) OnSuccess(ctx context.Context, event worker.Event) {
	if h == nil {
		return
	}
	h.metrics.IncCounter(ctx, "market.jobs.succeeded", 1, eventTags(event))
	h.metrics.ObserveHistogram(ctx, "market.jobs.duration_ms", float64(event.Duration.Milliseconds()), eventTags(event))
}

func (h *MetricsHook) OnFailure(ctx context.Context, event worker.Event) {
	if h == nil {
		return
	}
	h.metrics.IncCounter(ctx, "market.jobs.failed", 1, eventTags(event))
	if event.Err != nil {
		h.logger.Error("job failed", "job_id", eventJobID(event), "error", event.Err)
	}
}

func (h *MetricsHook) OnRetry(ctx context.Context, event worker.Event) {
	if h == nil {
		return
	}
	h.metrics.IncCounter(ctx, "market.jobs.retried", 1, eventTags(event))
}

func eventTags(event worker.Event) map[string]string {
	return map[string]string{
		"job_id":  eventJobID(event),
		"attempt": strconv.Itoa(event.Attempt),
	}
}

func eventJobID(event worker.Event) string {
	message := event.Message
	if message == nil && event.Delivery != nil {
		message = event.Delivery.Message()
	}
	if message == nil {
		return ""
	}
	return strings.TrimSpace(message.JobID)
}

var (
	_ core.TimeoutScheduler = (*QueueTimeoutScheduler)(nil)
	_ worker.Hook           = (*MetricsHook)(nil)
)
