package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	mu    sync.Mutex
	count int
	done  chan struct{}
}

func (j *countingJob) Process(_ context.Context) error {
	j.mu.Lock()
	j.count++
	j.mu.Unlock()
	j.done <- struct{}{}
	return nil
}

func TestPool_ProcessesJobs(t *testing.T) {
	pool := NewPool(2, 8)
	pool.Start()
	defer pool.Stop()

	job := &countingJob{done: make(chan struct{}, 4)}
	for i := 0; i < 4; i++ {
		pool.Enqueue(job)
	}

	for i := 0; i < 4; i++ {
		select {
		case <-job.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}

	job.mu.Lock()
	defer job.mu.Unlock()
	assert.Equal(t, 4, job.count)
}

type failingJob struct {
	done chan struct{}
}

func (j *failingJob) Process(_ context.Context) error {
	defer close(j.done)
	return errors.New("job failed")
}

func TestPool_JobErrorDoesNotKillWorker(t *testing.T) {
	pool := NewPool(1, 4)
	pool.Start()
	defer pool.Stop()

	bad := &failingJob{done: make(chan struct{})}
	pool.Enqueue(bad)
	<-bad.done

	// The single worker survives the failure and keeps processing.
	good := &countingJob{done: make(chan struct{}, 1)}
	pool.Enqueue(good)

	select {
	case <-good.done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover after a failed job")
	}
}
