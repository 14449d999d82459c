package dataloader

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type speaker struct {
	ID   int
	Name string
}

// recordingFetch serves ids from store and records every batch it was asked for.
type recordingFetch struct {
	mu      sync.Mutex
	store   map[int]*speaker
	batches [][]int
	err     error
}

func (f *recordingFetch) fetch(_ context.Context, keys []int) (map[int]*speaker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := append([]int(nil), keys...)
	sort.Ints(batch)
	f.batches = append(f.batches, batch)
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int]*speaker, len(keys))
	for _, k := range keys {
		if s, ok := f.store[k]; ok {
			out[k] = s
		}
	}
	return out, nil
}

func (f *recordingFetch) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func newStore() map[int]*speaker {
	return map[int]*speaker{
		1: {ID: 1, Name: "Ada"},
		2: {ID: 2, Name: "Grace"},
		3: {ID: 3, Name: "Barbara"},
	}
}

// newLoader returns a Loader that is closed when the test ends.
func newLoader(t *testing.T, fetch BatchFunc[int, *speaker], cfg Config) *Loader[int, *speaker] {
	t.Helper()
	l := New(fetch, cfg)
	t.Cleanup(l.Close)
	return l
}

type countingObserver struct {
	batches atomic.Int64
	hits    atomic.Int64
}

func (o *countingObserver) BatchDispatched(string, int) { o.batches.Add(1) }
func (o *countingObserver) CacheHit(string)             { o.hits.Add(1) }

func TestLoader_SameKeyTwiceFetchesOnce(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetch{store: newStore()}
	obs := &countingObserver{}
	l := newLoader(t, f.fetch, Config{Name: "speakerByID", Observer: obs})

	first, err := l.Load(ctx, 1)
	require.NoError(t, err)
	second, err := l.Load(ctx, 1)
	require.NoError(t, err)

	require.Equal(t, "Ada", first.Name)
	require.Same(t, first, second)
	require.Equal(t, 1, f.calls())
	require.EqualValues(t, 1, obs.batches.Load())
	require.EqualValues(t, 1, obs.hits.Load())
}

func TestLoader_ConcurrentLoadsCoalesce(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetch{store: newStore()}
	l := newLoader(t, f.fetch, Config{Name: "speakerByID", Wait: 50 * time.Millisecond})

	var wg sync.WaitGroup
	results := make([]*speaker, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := l.Load(ctx, i%3+1)
			require.NoError(t, err)
			results[i] = s
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, f.calls())
	require.Equal(t, []int{1, 2, 3}, f.batches[0])
	require.Same(t, results[0], results[3])
}

func TestLoader_LoadManyKeepsOrderAndResolvesMissingToNil(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetch{store: newStore()}
	l := newLoader(t, f.fetch, Config{Name: "speakerByID", Wait: 20 * time.Millisecond})

	got, err := l.LoadMany(ctx, []int{3, 42, 1, 3})
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Equal(t, "Barbara", got[0].Name)
	require.Nil(t, got[1])
	require.Equal(t, "Ada", got[2].Name)
	require.Same(t, got[0], got[3])
	require.Equal(t, [][]int{{1, 3, 42}}, f.batches)

	// The missing key is cached as absent too.
	missing, err := l.Load(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, missing)
	require.Equal(t, 1, f.calls())
}

func TestLoader_MaxBatchSplitsFetches(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetch{store: newStore()}
	l := newLoader(t, f.fetch, Config{Name: "speakerByID", Wait: 20 * time.Millisecond, MaxBatch: 2})

	got, err := l.LoadMany(ctx, []int{1, 2, 3, 4, 5})
	require.NoError(t, err)
	require.Len(t, got, 5)
	require.GreaterOrEqual(t, f.calls(), 3)
	keys := 0
	for _, b := range f.batches {
		require.LessOrEqual(t, len(b), 2)
		keys += len(b)
	}
	require.Equal(t, 5, keys)
}

func TestLoader_ErrorReachesWaitersAndIsNotCached(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")
	f := &recordingFetch{store: newStore(), err: boom}
	l := newLoader(t, f.fetch, Config{Name: "speakerByID", Wait: 20 * time.Millisecond})

	_, err := l.LoadMany(ctx, []int{1, 2})
	require.ErrorIs(t, err, boom)

	f.mu.Lock()
	f.err = nil
	f.mu.Unlock()

	s, err := l.Load(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Ada", s.Name)
	require.Equal(t, 2, f.calls())
}

func TestLoader_PanicInFetchBecomesError(t *testing.T) {
	l := newLoader(t, func(context.Context, []int) (map[int]*speaker, error) {
		panic("nil map")
	}, Config{Name: "speakerByID"})

	_, err := l.Load(context.Background(), 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "panicked")
}

func TestLoader_PrimeAndClear(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetch{store: newStore()}
	l := newLoader(t, f.fetch, Config{Name: "speakerByID"})

	l.Prime(7, &speaker{ID: 7, Name: "Primed"})
	s, err := l.Load(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "Primed", s.Name)
	require.Equal(t, 0, f.calls())

	_, err = l.Load(ctx, 2)
	require.NoError(t, err)
	l.Clear(2)
	_, err = l.Load(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, 2, f.calls())
}

func TestLoader_WaiterHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	l := newLoader(t, func(context.Context, []int) (map[int]*speaker, error) {
		<-release
		return nil, nil
	}, Config{Name: "speakerByID", Wait: time.Millisecond})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := l.Load(ctx, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoader_PeekNeverFetches(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetch{store: newStore()}
	l := newLoader(t, f.fetch, Config{Name: "speakerByID"})

	_, ok := l.Peek(1)
	require.False(t, ok)
	require.Equal(t, 0, f.calls())

	_, err := l.Load(ctx, 1)
	require.NoError(t, err)
	s, ok := l.Peek(1)
	require.True(t, ok)
	require.Equal(t, "Ada", s.Name)
	require.Equal(t, 1, f.calls())
}

func TestLoader_CancelledWaiterDoesNotFailOthers(t *testing.T) {
	release := make(chan struct{})
	f := &recordingFetch{store: newStore()}
	l := newLoader(t, func(ctx context.Context, keys []int) (map[int]*speaker, error) {
		<-release
		return f.fetch(ctx, keys)
	}, Config{Name: "speakerByID", Wait: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Load(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	s, err := l.Load(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Ada", s.Name)
	require.Equal(t, 1, f.calls())
}
