package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafkaGo.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkaGo.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

type failing struct{}

func (failing) Notify(context.Context, Kind, string) error { return errors.New("down") }

func TestKafkaNotifier_PublishesJSON(t *testing.T) {
	w := &fakeWriter{}
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	k := &KafkaNotifier{w: w, now: func() time.Time { return at }}

	require.NoError(t, k.Notify(context.Background(), KindWarning, "Alert: 2 products are below reorder level."))
	require.Len(t, w.msgs, 1)
	require.Equal(t, "warning", string(w.msgs[0].Key))

	var p kafkaPayload
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &p))
	require.Equal(t, KindWarning, p.Type)
	require.True(t, p.At.Equal(at))
}

func TestKafkaNotifier_WrapsWriteError(t *testing.T) {
	k := &KafkaNotifier{w: &fakeWriter{err: errors.New("broker unavailable")}, now: time.Now}
	err := k.Notify(context.Background(), KindInfo, "x")
	require.ErrorContains(t, err, "broker unavailable")
}

func TestMulti_JoinsErrors(t *testing.T) {
	log := NewLogNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, Multi{log}.Notify(context.Background(), KindSuccess, "ok"))
	require.Error(t, Multi{log, failing{}}.Notify(context.Background(), KindSuccess, "ok"))
}

func TestSend_SwallowsErrors(t *testing.T) {
	Send(context.Background(), failing{}, KindError, "ignored")
	Send(context.Background(), nil, KindError, "ignored")
}
