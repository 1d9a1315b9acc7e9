package fetch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource_SuppressedKey(t *testing.T) {
	var calls atomic.Int64
	r := NewResource(func() string { return "" }, func(ctx context.Context, key string) (int, error) {
		calls.Add(1)
		return 42, nil
	}, Options{})

	data, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = r.Refetch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)

	st := r.State()
	assert.False(t, st.Loading)
	assert.Nil(t, st.Data)
	assert.NoError(t, st.Err)
	assert.Zero(t, calls.Load(), "a suppressed resource never issues a request")
}

func TestResource_LoadCaches(t *testing.T) {
	var calls atomic.Int64
	r := NewResource(StaticKey("products"), func(ctx context.Context, key string) (string, error) {
		calls.Add(1)
		return "v" + key, nil
	}, Options{})

	st := r.State()
	assert.True(t, st.Loading, "key present, no data, no error")

	data, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "vproducts", *data)

	data, err = r.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "vproducts", *data)
	assert.Equal(t, int64(1), calls.Load(), "second Load serves the cache")

	st = r.State()
	assert.False(t, st.Loading)
	assert.Equal(t, "vproducts", *st.Data)
}

func TestResource_RefetchReissues(t *testing.T) {
	var calls atomic.Int64
	r := NewResource(StaticKey("k"), func(ctx context.Context, key string) (int64, error) {
		return calls.Add(1), nil
	}, Options{})

	first, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), *first)

	second, err := r.Refetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), *second, "Refetch resolves with the new value")
	assert.Equal(t, int64(2), *r.State().Data)
}

func TestResource_ErrorState(t *testing.T) {
	boom := errors.New("boom")
	fail := true
	r := NewResource(StaticKey("k"), func(ctx context.Context, key string) (int, error) {
		if fail {
			return 0, boom
		}
		return 7, nil
	}, Options{})

	_, err := r.Load(context.Background())
	require.ErrorIs(t, err, boom)

	st := r.State()
	assert.ErrorIs(t, st.Err, boom)
	assert.False(t, st.Loading, "an errored resource is not loading")
	assert.Nil(t, st.Data)

	// A successful refetch clears the error.
	fail = false
	data, err := r.Refetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, *data)
	assert.NoError(t, r.State().Err)
}

func TestResource_ConcurrentLoadsDeduplicate(t *testing.T) {
	var calls atomic.Int64
	gate := make(chan struct{})
	r := NewResource(StaticKey("k"), func(ctx context.Context, key string) (int, error) {
		calls.Add(1)
		<-gate
		return 1, nil
	}, Options{})

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = r.Load(context.Background())
		}()
	}

	// Let every goroutine reach the singleflight barrier, then release.
	time.Sleep(20 * time.Millisecond)
	assert.True(t, r.State().Validating)
	close(gate)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "one upstream request per unique key")
	assert.False(t, r.State().Validating)
}

func TestResource_RunPolls(t *testing.T) {
	var calls atomic.Int64
	r := NewResource(StaticKey("k"), func(ctx context.Context, key string) (int, error) {
		calls.Add(1)
		return 0, nil
	}, Options{RefreshInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestResource_RunDisabledReturns(t *testing.T) {
	r := NewResource(StaticKey("k"), func(ctx context.Context, key string) (int, error) {
		return 0, nil
	}, Options{})

	done := make(chan struct{})
	go func() {
		r.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately when polling is disabled")
	}
}
