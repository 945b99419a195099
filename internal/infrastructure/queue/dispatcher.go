package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/crudusers/user-admin/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	touchTimeout   = 5 * time.Second
)

var _ ports.LoginRecorder = (*Dispatcher)(nil)

// Dispatcher records last-login timestamps off the request path. Logins are
// sharded by user id so touches for one user are applied in order.
type Dispatcher struct {
	workers []chan int64
	repo    ports.UserRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.UserRepository, log zerolog.Logger) *Dispatcher {
	return newDispatcher(numWorkers, channelBuffer, repo, log)
}

func newDispatcher(numWorkers, buffer int, repo ports.UserRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan int64, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan int64, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// RecordLogin enqueues a touch for userID without blocking. When the
// worker's queue is full the touch is dropped and logged.
func (d *Dispatcher) RecordLogin(_ context.Context, userID int64) {
	select {
	case d.workers[d.shardIndex(userID)] <- userID:
	default:
		d.log.Warn().Int64("user_id", userID).Msg("last login queue full, dropping")
	}
}

func (d *Dispatcher) shardIndex(userID int64) int {
	if userID < 0 {
		userID = -userID
	}
	return int(userID % int64(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan int64) {
	for {
		select {
		case <-ctx.Done():
			return
		case userID, ok := <-ch:
			if !ok {
				return
			}
			d.touch(ctx, id, userID)
		}
	}
}

func (d *Dispatcher) touch(ctx context.Context, workerID int, userID int64) {
	ctx, cancel := context.WithTimeout(ctx, touchTimeout)
	defer cancel()

	if err := d.repo.TouchLastLogin(ctx, userID); err != nil {
		d.log.Warn().Err(err).
			Int64("user_id", userID).
			Int("worker_id", workerID).
			Msg("failed to record last login")
	}
}
