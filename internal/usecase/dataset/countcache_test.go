package dataset_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nq-browser/internal/usecase/dataset"
)

func TestCountCache_ComputesOnce(t *testing.T) {
	c := dataset.NewCountCache()
	var calls atomic.Int32

	compute := func(context.Context) (int64, error) {
		calls.Add(1)
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrCompute(context.Background(), "natural_questions", compute)
		require.NoError(t, err)
		assert.Equal(t, int64(42), got)
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, c.Len())

	v, ok := c.Peek("natural_questions")
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)
}

func TestCountCache_ConcurrentMissesShareOneComputation(t *testing.T) {
	c := dataset.NewCountCache()
	var calls atomic.Int32
	release := make(chan struct{})

	compute := func(context.Context) (int64, error) {
		calls.Add(1)
		<-release
		return 307373, nil
	}

	const n = 50
	var wg sync.WaitGroup
	results := make([]int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrCompute(context.Background(), "natural_questions", compute)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, int64(307373), v)
	}
}

func TestCountCache_FailuresAreNotCached(t *testing.T) {
	c := dataset.NewCountCache()
	readErr := errors.New("disk I/O error")
	var calls atomic.Int32

	_, err := c.GetOrCompute(context.Background(), "natural_questions", func(context.Context) (int64, error) {
		calls.Add(1)
		return 0, readErr
	})
	require.ErrorIs(t, err, readErr)

	_, ok := c.Peek("natural_questions")
	assert.False(t, ok)

	got, err := c.GetOrCompute(context.Background(), "natural_questions", func(context.Context) (int64, error) {
		calls.Add(1)
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCountCache_CancelledCallerDoesNotFailOthers(t *testing.T) {
	c := dataset.NewCountCache()
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	compute := func(ctx context.Context) (int64, error) {
		calls.Add(1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return 307373, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.GetOrCompute(ctx, "natural_questions", compute)
		firstErr <- err
	}()
	<-started

	type result struct {
		v   int64
		err error
	}
	second := make(chan result, 1)
	go func() {
		v, err := c.GetOrCompute(context.Background(), "natural_questions", compute)
		second <- result{v, err}
	}()

	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting for the shared count")
	}

	time.Sleep(20 * time.Millisecond)
	close(release)

	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, int64(307373), got.v)
	assert.Equal(t, int32(1), calls.Load())

	v, ok := c.Peek("natural_questions")
	assert.True(t, ok)
	assert.Equal(t, int64(307373), v)
}

func TestCountCache_DistinctKeysDoNotBlock(t *testing.T) {
	c := dataset.NewCountCache()
	blockA := make(chan struct{})
	defer close(blockA)

	go func() {
		_, _ = c.GetOrCompute(context.Background(), "natural_a", func(context.Context) (int64, error) {
			<-blockA
			return 1, nil
		})
	}()

	done := make(chan int64)
	go func() {
		v, _ := c.GetOrCompute(context.Background(), "natural_b", func(context.Context) (int64, error) {
			return 2, nil
		})
		done <- v
	}()

	select {
	case v := <-done:
		assert.Equal(t, int64(2), v)
	case <-time.After(time.Second):
		t.Fatal("lookup of natural_b waited on natural_a")
	}
}
