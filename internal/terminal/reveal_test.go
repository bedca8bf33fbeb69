package terminal

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRevealZeroDelayWritesEverything(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Reveal(context.Background(), &buf, []string{"a", "b", "c"}, 0))
	assert.Equal(t, "a\nb\nc\n", buf.String())
}

func TestRevealWithDelayPreservesContent(t *testing.T) {
	defer goleak.VerifyNone(t)

	lines := []string{"# Title", "", "body", "end"}
	var fast, slow bytes.Buffer
	require.NoError(t, Reveal(context.Background(), &fast, lines, 0))
	require.NoError(t, Reveal(context.Background(), &slow, lines, time.Millisecond))
	assert.Equal(t, fast.String(), slow.String())
}

func TestRevealCancelledFlushesRemainder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Reveal(ctx, &buf, []string{"one", "two", "three"}, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "one\ntwo\nthree\n", buf.String())
}

func TestRevealEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Reveal(context.Background(), &buf, nil, 0))
	require.NoError(t, Reveal(context.Background(), &buf, nil, time.Millisecond))
	assert.Empty(t, buf.String())
}
