// Package pixpool recycles pixel backing arrays between filter passes.
package pixpool

import "sync"

// Pool is a thread-safe pool for reusing RGBA backing slices.
//
// Pool groups slices by their byte length, so a multi-pass convolution over
// one image size keeps handing back the same few arrays instead of allocating
// one per pass.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[int][][]uint8
	maxSize int // max slices per bucket
}

// New creates a pool retaining at most maxPerBucket slices of each length.
// A maxPerBucket of 0 means unlimited (use with caution).
func New(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[int][][]uint8),
		maxSize: maxPerBucket,
	}
}

// Get returns a slice of exactly n bytes. Reused slices are not cleared;
// callers must overwrite every byte.
func (p *Pool) Get(n int) []uint8 {
	p.mu.Lock()
	bucket := p.buckets[n]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[n] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return buf
	}
	p.mu.Unlock()

	return make([]uint8, n)
}

// Put returns a slice to the pool. The caller must not use buf afterwards.
// Nil slices and slices for a full bucket are discarded.
func (p *Pool) Put(buf []uint8) {
	if buf == nil {
		return
	}
	n := len(buf)

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[n]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[n] = append(bucket, buf[:n:n])
}

// Len returns the number of slices currently retained for length n.
func (p *Pool) Len(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[n])
}
