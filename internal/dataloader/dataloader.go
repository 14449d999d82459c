// Package dataloader coalesces individual key lookups made while resolving one
// request into batched store fetches, and caches the results for the rest of
// that request.
//
// Keys are queued on a gobatch BatchReader, which cuts a batch once it holds
// MaxBatch keys or once Wait has passed. The Loader owns the per-request cache
// on top of it: in-flight sharing, Prime, Clear, Peek and eviction of failed keys.
//
// A Loader is created per request, must not be shared between requests and is
// closed when the request ends.
package dataloader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MasterOfBinary/gobatch/batch"
	batchsync "github.com/MasterOfBinary/gobatch/sync"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Defaults applied when Config leaves a field unset.
const (
	DefaultWait     = 2 * time.Millisecond
	DefaultMaxBatch = 100
)

var tracer = otel.Tracer("conferenceplanner/dataloader")

// BatchFunc fetches the values for keys in one store round trip.
// Keys missing from the returned map resolve to the zero value of V.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) (map[K]V, error)

// Observer receives loader activity, e.g. for metrics.
type Observer interface {
	BatchDispatched(loader string, size int)
	CacheHit(loader string)
}

// Config tunes a Loader.
type Config struct {
	// Name identifies the loader in traces and metrics.
	Name string
	// Wait is how long a batch collects keys before it is fetched.
	Wait time.Duration
	// MaxBatch dispatches a batch early once it holds this many keys.
	MaxBatch int
	Observer Observer
}

// Loader batches and caches lookups of V by K.
type Loader[K comparable, V any] struct {
	fetch    BatchFunc[K, V]
	name     string
	observer Observer

	get       func(ctx context.Context, key K) (V, error)
	stop      func()
	closeOnce sync.Once

	mu    sync.Mutex
	cache map[K]*entry[V]
}

type entry[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// New returns a Loader that fetches through fetch.
func New[K comparable, V any](fetch BatchFunc[K, V], cfg Config) *Loader[K, V] {
	if cfg.Wait <= 0 {
		cfg.Wait = DefaultWait
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = DefaultMaxBatch
	}
	l := &Loader[K, V]{
		fetch:    fetch,
		name:     cfg.Name,
		observer: cfg.Observer,
		cache:    make(map[K]*entry[V]),
	}
	reader := batchsync.NewBatchReader(batch.NewConstantConfig(&batch.ConfigValues{
		MinTime:  cfg.Wait,
		MaxTime:  cfg.Wait,
		MaxItems: uint64(cfg.MaxBatch),
	}), l.read)
	l.get = reader.Get
	l.stop = func() { reader.Close() }
	return l
}

// Close stops the batch reader. Loads still waiting on it fail.
func (l *Loader[K, V]) Close() {
	l.closeOnce.Do(l.stop)
}

// Load returns the value for key, joining the pending batch when key is not cached.
// A key the store does not know resolves to the zero value and a nil error.
func (l *Loader[K, V]) Load(ctx context.Context, key K) (V, error) {
	return l.await(ctx, l.enqueue(ctx, key))
}

// LoadMany returns the values for keys in key order. All uncached keys join
// the same pending batch.
func (l *Loader[K, V]) LoadMany(ctx context.Context, keys []K) ([]V, error) {
	entries := make([]*entry[V], len(keys))
	for i, key := range keys {
		entries[i] = l.enqueue(ctx, key)
	}
	values := make([]V, len(keys))
	for i, e := range entries {
		v, err := l.await(ctx, e)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// Prime stores value for key, replacing any cached value.
func (l *Loader[K, V]) Prime(key K, value V) {
	e := &entry[V]{done: make(chan struct{}), value: value}
	close(e.done)
	l.mu.Lock()
	l.cache[key] = e
	l.mu.Unlock()
}

// Clear evicts key so the next Load fetches it again.
func (l *Loader[K, V]) Clear(key K) {
	l.mu.Lock()
	delete(l.cache, key)
	l.mu.Unlock()
}

// Peek returns the cached value for key without fetching. It reports false when
// key is not cached, its batch is still running or the batch failed.
func (l *Loader[K, V]) Peek(key K) (V, bool) {
	l.mu.Lock()
	e, ok := l.cache[key]
	l.mu.Unlock()

	var zero V
	if !ok {
		return zero, false
	}
	select {
	case <-e.done:
		if e.err != nil {
			return zero, false
		}
		return e.value, true
	default:
		return zero, false
	}
}

func (l *Loader[K, V]) enqueue(ctx context.Context, key K) *entry[V] {
	l.mu.Lock()
	if e, ok := l.cache[key]; ok {
		l.mu.Unlock()
		if l.observer != nil {
			l.observer.CacheHit(l.name)
		}
		return e
	}
	e := &entry[V]{done: make(chan struct{})}
	l.cache[key] = e
	l.mu.Unlock()

	// Waiters share e, so one caller giving up must not fail the others.
	go l.resolve(context.WithoutCancel(ctx), key, e)
	return e
}

func (l *Loader[K, V]) resolve(ctx context.Context, key K, e *entry[V]) {
	v, err := l.get(ctx, key)
	if err != nil {
		// Failed keys are evicted so a later Load can retry them.
		l.mu.Lock()
		if l.cache[key] == e {
			delete(l.cache, key)
		}
		l.mu.Unlock()
		e.err = err
	} else {
		e.value = v
	}
	close(e.done)
}

// read is the batch function handed to the reader. Every requested key gets a
// value, so keys the store does not know resolve to the zero value.
func (l *Loader[K, V]) read(ctx context.Context, keys []K) (map[K]V, error) {
	ctx, span := tracer.Start(ctx, "dataloader.batch", trace.WithAttributes(
		attribute.String("loader.name", l.name),
		attribute.Int("loader.batch_size", len(keys)),
	))
	defer span.End()

	if l.observer != nil {
		l.observer.BatchDispatched(l.name, len(keys))
	}

	values, err := l.safeFetch(ctx, keys)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	out := make(map[K]V, len(keys))
	for _, key := range keys {
		out[key] = values[key]
	}
	return out, nil
}

func (l *Loader[K, V]) safeFetch(ctx context.Context, keys []K) (values map[K]V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dataloader %s: batch panicked: %v", l.name, r)
		}
	}()
	values, err = l.fetch(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("dataloader %s: %w", l.name, err)
	}
	return values, nil
}

func (l *Loader[K, V]) await(ctx context.Context, e *entry[V]) (V, error) {
	select {
	case <-e.done:
		return e.value, e.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
