package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", []byte("v1")))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMemoryList(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, "games/a", []byte("1")))
	require.NoError(t, s.Set(ctx, "games/a/seats/seat_01", []byte("2")))
	require.NoError(t, s.Set(ctx, "users/u", []byte("3")))

	got, err := s.List(ctx, "games/")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "games/a")
	assert.Contains(t, got, "games/a/seats/seat_01")
}

// TestMemoryUpdateConcurrentCounter hammers one key from many goroutines and
// expects no lost updates: that is the whole point of the primitive.
func TestMemoryUpdateConcurrentCounter(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, "counter", []byte("0")))

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := s.Update(ctx, "counter", func(current []byte) ([]byte, error) {
					n, convErr := strconv.Atoi(string(current))
					if convErr != nil {
						return nil, convErr
					}
					return []byte(strconv.Itoa(n + 1)), nil
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(workers*perWorker), string(got))
}

func TestMemoryUpdateAbortPropagates(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, "k", []byte("keep")))

	abort := errors.New("abort")
	_, err := s.Update(ctx, "k", func([]byte) ([]byte, error) {
		return nil, abort
	})
	require.ErrorIs(t, err, abort)

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "keep", string(got), "aborted update must not write")
}

func TestMemoryUpdateCreatesMissingKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, err := s.Update(ctx, "fresh", func(current []byte) ([]byte, error) {
		require.Nil(t, current)
		return []byte("born"), nil
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "born", string(got))
}

type testDoc struct {
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

func TestUpdateJSON(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	doc, err := UpdateJSON(ctx, s, "doc", func(d *testDoc, exists bool) error {
		require.False(t, exists)
		d.Count = 1
		d.Tags = []string{"a"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Count)

	doc, err = UpdateJSON(ctx, s, "doc", func(d *testDoc, exists bool) error {
		require.True(t, exists)
		d.Count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Count)
	assert.Equal(t, []string{"a"}, doc.Tags)

	raw, err := s.Get(ctx, "doc")
	require.NoError(t, err)
	var stored testDoc
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, 2, stored.Count)
}

func TestIsGameRecord(t *testing.T) {
	assert.True(t, IsGameRecord("games/abc"))
	assert.False(t, IsGameRecord("games/abc/seats/seat_01"))
	assert.False(t, IsGameRecord("users/abc"))
}
