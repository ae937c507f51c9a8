package world

import (
	"context"
	"sync"
	"time"

	"blockworld/internal/block"
)

type genJob struct {
	ctx   context.Context
	chunk *Chunk
	gen   *Generator
	edits map[LocalCoord]block.ID
}

type genResult struct {
	chunk   *Chunk
	elapsed time.Duration
}

type pendingChunk struct {
	chunk  *Chunk
	cancel context.CancelFunc
}

// streamer runs chunk generation on background workers. Workers only touch
// the chunk of their own job; finished chunks come back through results and
// are installed by the manager on its own goroutine.
type streamer struct {
	jobs    chan genJob
	results chan genResult
	done    chan struct{}
	wg      sync.WaitGroup

	// owned by the manager goroutine
	pending map[ChunkCoord]pendingChunk
}

func newStreamer(workers, queue int) *streamer {
	s := &streamer{
		jobs:    make(chan genJob, queue),
		results: make(chan genResult, queue),
		done:    make(chan struct{}),
		pending: make(map[ChunkCoord]pendingChunk),
	}
	workers = max(workers, 1)
	s.wg.Add(workers)
	for range workers {
		go s.worker()
	}
	return s
}

func (s *streamer) worker() {
	defer s.wg.Done()
	for job := range s.jobs {
		if job.ctx.Err() != nil {
			continue
		}
		start := time.Now()
		job.gen.Generate(job.chunk, job.edits)
		r := genResult{chunk: job.chunk, elapsed: time.Since(start)}
		select {
		case s.results <- r:
		case <-s.done:
			return
		}
	}
}

// request queues generation of chunk. It returns false when the queue is
// full; the caller retries on a later update.
func (s *streamer) request(chunk *Chunk, gen *Generator, edits map[LocalCoord]block.ID) bool {
	if _, ok := s.pending[chunk.Coord]; ok {
		return true
	}
	ctx, cancel := context.WithCancel(context.Background())
	select {
	case s.jobs <- genJob{ctx: ctx, chunk: chunk, gen: gen, edits: edits}:
		s.pending[chunk.Coord] = pendingChunk{chunk: chunk, cancel: cancel}
		return true
	default:
		cancel()
		return false
	}
}

// cancel forgets a pending chunk. A worker that already finished it has its
// result dropped by drain.
func (s *streamer) cancel(coord ChunkCoord) bool {
	p, ok := s.pending[coord]
	if !ok {
		return false
	}
	p.cancel()
	delete(s.pending, coord)
	return true
}

func (s *streamer) cancelAll() {
	for coord := range s.pending {
		s.cancel(coord)
	}
}

// drain hands every finished, still wanted chunk to install without
// blocking. It returns how many results were dropped as stale.
func (s *streamer) drain(install func(c *Chunk, elapsed time.Duration)) (dropped int) {
	for {
		select {
		case r := <-s.results:
			p, ok := s.pending[r.chunk.Coord]
			if !ok || p.chunk != r.chunk {
				dropped++
				continue
			}
			p.cancel()
			delete(s.pending, r.chunk.Coord)
			install(r.chunk, r.elapsed)
		default:
			return dropped
		}
	}
}

func (s *streamer) isPending(coord ChunkCoord) bool {
	_, ok := s.pending[coord]
	return ok
}

func (s *streamer) pendingCount() int {
	return len(s.pending)
}

func (s *streamer) close() {
	s.cancelAll()
	close(s.done)
	close(s.jobs)
	s.wg.Wait()
}
