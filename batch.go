package logfilter

import (
	"context"
	"slices"
	"sync"

	"git.fractalqb.de/fractalqb/icontainer/islist"
	"github.com/sourcegraph/conc/pool"
)

// Result is the outcome of scanning one file of a Batch.
type Result struct {
	Path    string
	Matches int
	Err     error
}

// Batch scans a queue of files with up to Jobs concurrent workers. Each
// worker uses its own Reader. If Jobs > 1, OnMatch must be safe for
// concurrent use.
type Batch struct {
	Grep
	Jobs int

	mu    sync.Mutex
	queue *islist.List
	seq   int
}

type batchJob struct {
	seq    int
	path   string
	lsNext *batchJob
}

// ListNext to implement intrusive singly linked list
func (j *batchJob) ListNext() islist.Node {
	if j.lsNext == nil {
		return nil
	}
	return j.lsNext
}

// SetListNext to implement intrusive singly linked list
func (j *batchJob) SetListNext(n islist.Node) {
	if n == nil {
		j.lsNext = nil
	} else {
		j.lsNext = n.(*batchJob)
	}
}

// Add appends files to the queue.
func (b *Batch) Add(paths ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range paths {
		j := &batchJob{seq: b.seq, path: p}
		b.seq++
		if b.queue == nil {
			b.queue = islist.New(j)
		} else {
			b.queue.PushBack(j)
		}
	}
}

// Pending returns the number of queued files.
func (b *Batch) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.queue == nil {
		return 0
	}
	return b.queue.Len()
}

func (b *Batch) pop() *batchJob {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.queue == nil || b.queue.Len() == 0 {
		return nil
	}
	j := b.queue.Front().(*batchJob)
	b.queue.Drop(1)
	return j
}

// Run drains the queue and returns one Result per scanned file in queue
// order. Errors of single files are reported in their Result. The returned
// error is only set when ctx ended before the queue was drained.
func (b *Batch) Run(ctx context.Context, f *Filter) ([]Result, error) {
	type seqResult struct {
		seq int
		Result
	}
	var (
		resMu sync.Mutex
		res   []seqResult
	)
	jobs := max(1, b.Jobs)
	p := pool.New().WithMaxGoroutines(jobs).WithContext(ctx)
	for i := 0; i < jobs; i++ {
		p.Go(func(ctx context.Context) error {
			g := b.Grep
			g.buf = nil
			for j := b.pop(); j != nil; j = b.pop() {
				n, err := g.File(ctx, j.path, f)
				if err != nil {
					b.Log.Warn().Err(err).Str("path", j.path).Msg("scan failed")
				}
				resMu.Lock()
				res = append(res, seqResult{
					seq:    j.seq,
					Result: Result{Path: j.path, Matches: n, Err: err},
				})
				resMu.Unlock()
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := p.Wait()
	slices.SortFunc(res, func(x, y seqResult) int { return x.seq - y.seq })
	out := make([]Result, len(res))
	for i := range res {
		out[i] = res[i].Result
	}
	return out, err
}
