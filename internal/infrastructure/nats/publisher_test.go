package nats

import (
	"context"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{name: "plain", tokens: []string{"itinerary", "created"}, want: "itinerary.created"},
		{name: "dots inside token", tokens: []string{"travel.events", "created"}, want: "travel_events.created"},
		{name: "wildcards and spaces", tokens: []string{" a b*", ">"}, want: "a_b_._"},
		{name: "empty token", tokens: []string{"", "created"}, want: "_.created"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subject(tt.tokens...))
		})
	}
}

func TestConsume_DeliversUntilCancelled(t *testing.T) {
	ch := make(chan *nats.Msg, 2)
	ch <- &nats.Msg{Subject: "itinerary.created", Data: []byte("first")}
	ch <- &nats.Msg{Subject: "itinerary.created", Data: []byte("second")}

	ctx, cancel := context.WithCancel(context.Background())
	var got []string

	err := consume(ctx, ch, func(data []byte) {
		got = append(got, string(data))
		if len(got) == 2 {
			cancel()
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestConsume_ClosedChannel(t *testing.T) {
	ch := make(chan *nats.Msg)
	close(ch)

	err := consume(context.Background(), ch, func([]byte) { t.Fatal("unexpected message") })
	assert.NoError(t, err)
}
