package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carjai/marketplace-client/internal/api/metrics"
	"github.com/carjai/marketplace-client/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher routes background tasks to a fixed set of workers using
// consistent hashing on the task key, so tasks sharing a key run in the order
// they were enqueued.
type Dispatcher struct {
	workers []chan ports.Task
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.Task, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Task, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Tasks receive ctx; workers exit once
// Close has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a task to the worker responsible for its key. Tasks enqueued
// after Close are dropped.
func (d *Dispatcher) Enqueue(task ports.Task) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Debug().Str("key", task.Key).Msg("dispatcher closed, task dropped")
		return
	}
	idx := d.shardIndex(task.Key)
	d.workers[idx] <- task
	metrics.TasksQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// Close stops accepting tasks and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a task key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Task) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for task := range ch {
		metrics.TasksQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		if err := d.run(ctx, task); err != nil {
			metrics.TasksProcessedTotal.WithLabelValues("error").Inc()
			d.log.Debug().Err(err).
				Str("key", task.Key).
				Int("worker_id", id).
				Msg("background task failed")
			continue
		}
		metrics.TasksProcessedTotal.WithLabelValues("ok").Inc()
	}
}

func (d *Dispatcher) run(ctx context.Context, task ports.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task.Run(ctx)
}
