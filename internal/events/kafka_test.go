package events

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	written    []kafka.Message
	shouldFail bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.shouldFail {
		return errors.New("mock kafka write failed")
	}
	m.written = append(m.written, msgs...)
	return nil
}

func (m *mockWriter) Close() error { return nil }

func TestKafkaPublisherEncodesEvents(t *testing.T) {
	w := &mockWriter{}
	p := NewKafkaPublisher(w)

	like := New(PinLiked, "user_a")
	like.PinID = 9
	follow := New(UserFollowed, "user_a")
	follow.TargetUserID = "user_b"

	require.NoError(t, p.Publish(context.Background(), like, follow))
	require.Len(t, w.written, 2)

	assert.Equal(t, "pin:9", string(w.written[0].Key))
	assert.Equal(t, "user:user_b", string(w.written[1].Key))
	assert.Equal(t, "pin.liked", string(w.written[0].Headers[0].Value))

	decoded, err := Decode(w.written[0])
	require.NoError(t, err)
	assert.Equal(t, like.ID, decoded.ID)
	assert.Equal(t, PinLiked, decoded.Type)
	assert.Equal(t, uint(9), decoded.PinID)
}

func TestKafkaPublisherPropagatesWriteError(t *testing.T) {
	p := NewKafkaPublisher(&mockWriter{shouldFail: true})
	err := p.Publish(context.Background(), New(PinSaved, "user_a"))
	assert.Error(t, err)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(kafka.Message{Value: []byte("not json"), Offset: 3})
	assert.ErrorContains(t, err, "offset 3")
}
