package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/events"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockReader hands out queued messages, then blocks until ctx ends.
type mockReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	failFirst bool
	committed []kafka.Message
}

func (m *mockReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	if m.failFirst {
		m.failFirst = false
		m.mu.Unlock()
		return kafka.Message{}, errors.New("broker unavailable")
	}
	if len(m.msgs) > 0 {
		msg := m.msgs[0]
		m.msgs = m.msgs[1:]
		m.mu.Unlock()
		return msg, nil
	}
	m.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (m *mockReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = append(m.committed, msgs...)
	return nil
}

func (m *mockReader) Close() error { return nil }

func (m *mockReader) commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed)
}

// mockRecorder fails each event type the configured number of times before
// accepting it; a negative count fails forever.
type mockRecorder struct {
	mu       sync.Mutex
	seen     []events.Event
	fail     map[events.Type]int
	attempts int
}

func (m *mockRecorder) Record(_ context.Context, ev events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if n := m.fail[ev.Type]; n != 0 {
		if n > 0 {
			m.fail[ev.Type] = n - 1
		}
		return errors.New("db down")
	}
	m.seen = append(m.seen, ev)
	return nil
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}

func message(t *testing.T, ev events.Event, partition int, offset int64) kafka.Message {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{Value: b, Partition: partition, Offset: offset}
}

func TestWorkerRecordsAndCommits(t *testing.T) {
	like := events.New(events.PinLiked, "user_a")
	like.PinID = 3
	follow := events.New(events.UserFollowed, "user_a")
	follow.TargetUserID = "user_b"

	reader := &mockReader{
		failFirst: true,
		msgs: []kafka.Message{
			message(t, like, 0, 1),
			message(t, follow, 1, 1),
			{Value: []byte("{not json"), Partition: 0, Offset: 2},
		},
	}
	recorder := &mockRecorder{}
	w := New(reader, recorder, 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return reader.commits() == 3 }, 3*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	assert.Equal(t, 2, recorder.count())
}

func TestWorkerRetriesRecordUntilItSucceeds(t *testing.T) {
	save := events.New(events.PinSaved, "user_a")
	save.PinID = 1
	msg := message(t, save, 0, 10)
	reader := &mockReader{}
	recorder := &mockRecorder{fail: map[events.Type]int{events.PinSaved: 2}}

	w := New(reader, recorder, 1)
	require.True(t, w.handle(context.Background(), msg))

	assert.Equal(t, 3, recorder.attempts)
	assert.Equal(t, 1, recorder.count())
	require.Equal(t, 1, reader.commits())
	assert.Equal(t, int64(10), reader.committed[0].Offset)
}

func TestWorkerNeverCommitsPastAFailedOffset(t *testing.T) {
	save := events.New(events.PinSaved, "user_a")
	save.PinID = 1
	like := events.New(events.PinLiked, "user_a")
	like.PinID = 1

	reader := &mockReader{msgs: []kafka.Message{
		message(t, save, 0, 10),
		message(t, like, 0, 11),
	}}
	recorder := &mockRecorder{fail: map[events.Type]int{events.PinSaved: -1}}
	w := New(reader, recorder, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("worker did not stop")
	}

	assert.Zero(t, reader.commits(), "offset 11 must not be committed over failed offset 10")
	assert.Zero(t, recorder.count())
}
