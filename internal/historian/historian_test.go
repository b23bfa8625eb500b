package historian

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Subas2/SIANG-TAMBOLA/internal/events"
)

func newTestService(batchSize int, flush func(context.Context, []events.Event) error) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		batchSize:  batchSize,
		flushDelay: time.Second,
		logger:     logger,
		batch:      make([]events.Event, 0, batchSize),
		flush:      flush,
		ctx:        ctx,
		cancelFn:   cancel,
	}
}

func TestBatchFlushesAtThreshold(t *testing.T) {
	var flushed [][]events.Event
	s := newTestService(3, func(_ context.Context, batch []events.Event) error {
		flushed = append(flushed, batch)
		return nil
	})

	gameID := uuid.New()
	for i := 1; i <= 7; i++ {
		s.appendToBatch(events.Event{Type: events.EventNumberDrawn, GameID: gameID, Number: i})
	}

	require.Len(t, flushed, 2, "two full batches of three")
	assert.Len(t, flushed[0], 3)
	assert.Len(t, flushed[1], 3)
	assert.Equal(t, 1, flushed[0][0].Number)
	assert.Equal(t, 6, flushed[1][2].Number)

	// The leftover event goes out on the next timed flush.
	s.flushBatch()
	require.Len(t, flushed, 3)
	assert.Equal(t, 7, flushed[2][0].Number)

	// Nothing pending, nothing flushed.
	s.flushBatch()
	assert.Len(t, flushed, 3)
}

func TestFlushFailureDropsBatch(t *testing.T) {
	calls := 0
	s := newTestService(10, func(context.Context, []events.Event) error {
		calls++
		return context.DeadlineExceeded
	})

	s.appendToBatch(events.Event{Type: events.EventGameEnded, GameID: uuid.New()})
	s.flushBatch()
	assert.Equal(t, 1, calls, "failed flush is logged, batch dropped from memory")
}
