package notifier

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/events"
	"github.com/segmentio/kafka-go"
)

// Recorder persists the effect of one activity event. It must be idempotent:
// a message is redelivered when its commit is lost or shutdown interrupts
// its retries.
type Recorder interface {
	Record(ctx context.Context, ev events.Event) error
}

// Worker consumes activity events and records them with a fixed pool of
// goroutines. Messages from one partition always land on the same goroutine,
// so offsets are committed in order. Kafka commits are cumulative, so a lane
// never moves past a message it failed to record.
type Worker struct {
	reader   events.MessageReader
	recorder Recorder
	workers  int
	queue    int
}

func New(reader events.MessageReader, recorder Recorder, workers int) *Worker {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Worker{reader: reader, recorder: recorder, workers: workers, queue: 16}
}

// Run blocks until ctx is cancelled, then drains in-flight messages.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("notifier starting", "workers", w.workers)

	lanes := make([]chan kafka.Message, w.workers)
	var wg sync.WaitGroup
	for i := range lanes {
		lanes[i] = make(chan kafka.Message, w.queue)
		wg.Add(1)
		go func(jobs <-chan kafka.Message) {
			defer wg.Done()
			for msg := range jobs {
				if !w.handle(ctx, msg) {
					// Interrupted mid-retry: later offsets must stay
					// uncommitted so the failed one is redelivered.
					for range jobs {
					}
					return
				}
			}
		}(lanes[i])
	}

	w.readLoop(ctx, lanes)

	for _, lane := range lanes {
		close(lane)
	}
	wg.Wait()
	slog.Info("notifier stopped")
}

func (w *Worker) readLoop(ctx context.Context, lanes []chan kafka.Message) {
	var retry int
	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			wait := backoff(retry)
			slog.Error("kafka fetch failed, backing off", "action", "notifier_fetch", "error", err, "backoff_ms", wait.Milliseconds())
			if !waitWithContext(ctx, wait) {
				return
			}
			retry++
			continue
		}
		retry = 0

		lane := lanes[msg.Partition%len(lanes)]
		select {
		case lane <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// handle records one message and commits it, retrying the record with
// backoff until it succeeds. It reports false when ctx ended before that.
// A message that cannot be decoded is committed anyway; retrying it would
// never succeed.
func (w *Worker) handle(ctx context.Context, msg kafka.Message) bool {
	ev, err := events.Decode(msg)
	if err != nil {
		slog.Error("dropping undecodable event", "action", "notifier_decode", "error", err, "partition", msg.Partition, "offset", msg.Offset)
	} else {
		for retry := 0; ; retry++ {
			err := w.record(ev)
			if err == nil {
				break
			}
			wait := backoff(retry)
			slog.Error("recording event failed, retrying", "action", "notifier_record", "error", err,
				"event_id", ev.ID.String(), "type", string(ev.Type), "partition", msg.Partition, "offset", msg.Offset, "backoff_ms", wait.Milliseconds())
			if !waitWithContext(ctx, wait) {
				return false
			}
		}
	}

	commitCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := w.reader.CommitMessages(commitCtx, msg); err != nil {
		slog.Error("kafka commit failed", "action", "notifier_commit", "error", err, "offset", msg.Offset)
	}
	return true
}

// record runs one attempt. In-flight work finishes even after shutdown starts.
func (w *Worker) record(ev events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return w.recorder.Record(ctx, ev)
}

func backoff(retry int) time.Duration {
	return time.Duration(math.Min(1000, math.Pow(2, float64(retry)))) * time.Millisecond
}

func waitWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
