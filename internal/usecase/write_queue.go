package usecase

import (
	"context"
	"sync"
)

// writeQueue выстраивает фоновые записи одной коллекции в порядке постановки:
// каждая запись ждёт завершения предыдущей.
type writeQueue struct {
	mu   sync.Mutex
	tail chan struct{}
}

// next резервирует место в очереди. Запись должна дождаться prev и закрыть done.
func (q *writeQueue) next() (prev <-chan struct{}, done chan struct{}) {
	q.mu.Lock()
	defer q.mu.Unlock()

	prev = q.tail
	done = make(chan struct{})
	q.tail = done

	return prev, done
}

// drain ждёт завершения всех записей, поставленных до вызова.
func (q *writeQueue) drain(ctx context.Context) error {
	q.mu.Lock()
	tail := q.tail
	q.mu.Unlock()

	if tail == nil {
		return nil
	}

	select {
	case <-tail:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
