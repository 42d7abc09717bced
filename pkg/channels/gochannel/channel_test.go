package gochannel

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChannel_PersistentReplaysToLateSubscribers(t *testing.T) {
	pub, sub, err := CreateChannel(watermill.NopLogger{}, Persistent())
	require.NoError(t, err)

	defer func() { _ = pub.Close() }()

	require.NoError(t, pub.Publish("runs", message.NewMessage("m-1", []byte(`{"id":1}`))))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := sub.Subscribe(ctx, "runs")
	require.NoError(t, err)

	select {
	case msg := <-messages:
		assert.Equal(t, "m-1", msg.UUID)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("persistent channel did not replay the message")
	}
}
