package metrics

import (
	"fmt"
	"sync"
)

// SectionKey identifies one accounted section of the generated artifact, for
// example a single exported file, the directory diagram, or the header.
type SectionKey struct {
	Kind string // "file" | "tree" | "header"
	Name string
}

func (k SectionKey) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.Name)
}

// Item accumulates the size of one section.
type Item struct {
	Bytes  int
	Tokens int
	Lines  int
}

func (it *Item) add(bytes, tokens, lines int) {
	it.Bytes += bytes
	it.Tokens += tokens
	it.Lines += lines
}

type job struct {
	key     SectionKey
	content []byte
}

// Report accounts the size of everything written to the export artifact.
// Token counting can be slow (tiktoken), so content is handed to a small
// worker pool and the totals become stable only after Wait.
type Report struct {
	mu        sync.Mutex
	wg        sync.WaitGroup
	closeOnce sync.Once
	jobs      chan job
	items     map[SectionKey]Item
	ctr       Counter
}

// NewReport creates a Report counting with ctr across the given number of
// workers.
func NewReport(ctr Counter, workers int) *Report {
	if workers < 1 {
		workers = 1
	}

	r := &Report{
		jobs:  make(chan job, workers*2),
		items: make(map[SectionKey]Item),
		ctr:   ctr,
	}

	r.wg.Add(workers)
	for i := 0; i < workers; i++ {
		// Each worker ranges over the channel it was handed, not the
		// struct field, so Wait can never yank it out from under a
		// worker that has not been scheduled yet.
		go r.worker(r.jobs)
	}

	return r
}

func (r *Report) worker(jobs <-chan job) {
	defer r.wg.Done()

	for job := range jobs {
		bytes, tokens, lines := r.ctr.Count(string(job.content))

		r.mu.Lock()
		item := r.items[job.key]
		item.add(bytes, tokens, lines)
		r.items[job.key] = item
		r.mu.Unlock()
	}
}

// Add queues content to be counted against the (kind, name) section.
// Must not be called after Wait.
func (r *Report) Add(kind, name string, content []byte) {
	r.jobs <- job{key: SectionKey{Kind: kind, Name: name}, content: content}
}

// Wait drains the pending work. It is idempotent; the first call closes the
// job channel.
func (r *Report) Wait() {
	r.closeOnce.Do(func() { close(r.jobs) })
	r.wg.Wait()
}

// Items returns a copy of the per-section accounting. Call Wait first.
func (r *Report) Items() map[SectionKey]Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[SectionKey]Item, len(r.items))
	for k, v := range r.items {
		out[k] = v
	}
	return out
}

// SumBy totals every section of the given kind. Call Wait first.
func (r *Report) SumBy(kind string) Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total Item
	for k, item := range r.items {
		if k.Kind == kind {
			total.add(item.Bytes, item.Tokens, item.Lines)
		}
	}
	return total
}

// Total sums every section. Call Wait first.
func (r *Report) Total() Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total Item
	for _, item := range r.items {
		total.add(item.Bytes, item.Tokens, item.Lines)
	}
	return total
}
