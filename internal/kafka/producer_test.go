package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProducerCloseAfterContextCancel(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "test-topic", 4)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	cancel()
	p.WaitClosed()

	require.NotPanics(t, func() { p.Close() })
}

func TestProducerCloseIsIdempotent(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"}, "test-topic", 4)
	p.Start(context.Background())

	p.Close()
	require.NotPanics(t, func() { p.Close() })
	p.WaitClosed()
}
