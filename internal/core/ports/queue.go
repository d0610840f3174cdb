package ports

import "context"

// Task is a best-effort unit of background work. Tasks sharing a Key run in
// the order they were enqueued.
type Task struct {
	Key string
	Run func(ctx context.Context) error
}

// TaskQueue accepts fire-and-forget work.
type TaskQueue interface {
	Enqueue(task Task)
}
