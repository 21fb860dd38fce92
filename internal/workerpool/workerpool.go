// Package workerpool runs a fixed-size pool of goroutines pulling from a
// shared task queue, supervised by a tomb.Tomb.
package workerpool

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 100

// WorkerFunction processes one task. Returning an error takes that
// worker's goroutine down and, through the tomb, signals its siblings.
type WorkerFunction func(t *tomb.Tomb, task any) error

type WorkerPool struct {
	n     uint
	tasks chan any
}

func New(size uint) *WorkerPool {
	return &WorkerPool{
		n:     size,
		tasks: make(chan any, taskChanSize),
	}
}

// AddTask enqueues task for the next free worker. Blocks once the queue
// is full, applying natural backpressure to whoever is producing tasks.
func (pool *WorkerPool) AddTask(task any) {
	pool.tasks <- task
}

// Run spawns the pool's n workers under t and blocks until t is dying.
func (pool *WorkerPool) Run(t *tomb.Tomb, work WorkerFunction) {
	for i := uint(0); i < pool.n; i++ {
		id := i
		t.Go(func() error {
			return pool.worker(t, id, work)
		})
	}
	<-t.Dying()
}

func (pool *WorkerPool) worker(t *tomb.Tomb, id uint, work WorkerFunction) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task := <-pool.tasks:
			if err := work(t, task); err != nil {
				log.Error().Err(err).Uint("worker_id", id).Msg("worker exiting")
				return err
			}
		}
	}
}
