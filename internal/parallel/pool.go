package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// tileJob is one tile of a Run call.
type tileJob struct {
	tile Tile
	fn   func(Tile)
	done *sync.WaitGroup
	ctx  context.Context
}

func (j tileJob) run() {
	defer j.done.Done()
	if j.ctx.Err() != nil {
		return
	}
	j.fn(j.tile)
}

// TilePool renders tiles on a fixed set of goroutines.
//
// Each worker owns a queue of tiles. An idle worker steals from the other
// queues before blocking: tiles inside the set iterate to the cap while
// exterior tiles escape after a few steps, so a static split would leave
// cores idle.
//
// TilePool is safe for concurrent use.
type TilePool struct {
	workers int
	queues  []chan tileJob
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewTilePool starts a pool with the given number of workers.
// Zero or negative means GOMAXPROCS.
func NewTilePool(workers int) *TilePool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &TilePool{
		workers: workers,
		queues:  make([]chan tileJob, workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan tileJob, max(workers*4, 8))
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *TilePool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case job := <-own:
			job.run()
		default:
			if job, ok := p.steal(id); ok {
				job.run()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case job := <-own:
				job.run()
			}
		}
	}
}

func (p *TilePool) drain(queue chan tileJob) {
	for {
		select {
		case job := <-queue:
			job.run()
		default:
			return
		}
	}
}

func (p *TilePool) steal(self int) (tileJob, bool) {
	for i := range p.workers {
		if i == self {
			continue
		}
		select {
		case job := <-p.queues[i]:
			return job, true
		default:
		}
	}
	return tileJob{}, false
}

// Run calls fn once per tile, spreading tiles round-robin over the workers,
// and blocks until all have finished. Once ctx is done, tiles not yet
// started are skipped and ctx's error is returned. fn must only write the
// pixels of its own tile.
//
// On a closed pool the tiles run on the calling goroutine.
func (p *TilePool) Run(ctx context.Context, tiles []Tile, fn func(Tile)) error {
	var wg sync.WaitGroup
	wg.Add(len(tiles))
	for i, t := range tiles {
		job := tileJob{tile: t, fn: fn, done: &wg, ctx: ctx}
		if !p.running.Load() {
			job.run()
			continue
		}
		select {
		case p.queues[i%p.workers] <- job:
		case <-p.done:
			job.run()
		}
	}
	wg.Wait()
	return ctx.Err()
}

// Close stops the workers once the queued tiles have drained.
// Close is safe to call multiple times.
func (p *TilePool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *TilePool) Workers() int {
	return p.workers
}

// Running reports whether the pool still has workers.
func (p *TilePool) Running() bool {
	return p.running.Load()
}
