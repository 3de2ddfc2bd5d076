// Copyright 2024 OpenObserve, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package melt implements an in-memory, serializable fuzzy full-text
// search index built on stacked Bloom filters.
//
// Documents are decomposed into character n-gram features and inserted
// into fixed-capacity Buckets whose per-document Bloom filters are
// transposed into a bit-matrix layout, so many documents can be scanned
// in parallel against a query fingerprint. Documents are automatically
// routed to a Shard by their Bloom geometry (m, k), so that short and long
// documents retain bounded false positive rates without a shared,
// one-size-fits-all filter.
//
// A SearchIndex answers two probabilistic membership queries per
// document: Search (conjunctive — every query feature must be present)
// and SearchOr (disjunctive — any query feature present). Both return
// candidate DocIDs; false positives are possible (by design, tunable via
// the target probability), false negatives are not. Callers that need
// exact results should post-verify candidates against the original text.
package melt

import (
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring"
	"golang.org/x/sync/errgroup"
)

// DocID is the identifier assigned to a document by SearchIndex.Add. IDs
// are assigned in strict call order starting at 0, are stable for the
// lifetime of the index, and are never reused.
type DocID = uint64

// DefaultProbability is the target false positive rate used by Default.
// It is unusually high for a Bloom filter; callers seeking precision
// should configure a lower value with New.
const DefaultProbability = 0.6

// A SearchIndex is an in-memory fuzzy full-text index. The zero value is
// not usable; construct one with New or Default.
//
// A SearchIndex is single-writer/multi-reader: Add and Clear require
// exclusive access and are serialized by mu, while Search, SearchOr, Size
// and SizeBytes may be called concurrently from many goroutines. A bucket
// becomes safe for unsynchronized concurrent reads the moment it seals
// (reaches BucketCapacity documents); the only bucket ever mutated after
// that point is the single open bucket per shard, and only by Add, which
// already holds mu for writing.
type SearchIndex struct {
	mu     sync.RWMutex
	shards []*shard
	size   uint64
	prob   float64
}

// New constructs an empty SearchIndex with the given target false positive
// probability p. It returns ErrInvalidProbability if p is not in (0, 1).
func New(p float64) (*SearchIndex, error) {
	if p <= 0 || p >= 1 {
		return nil, ErrInvalidProbability
	}
	return &SearchIndex{prob: p}, nil
}

// Default constructs an empty SearchIndex with DefaultProbability.
func Default() *SearchIndex {
	idx, err := New(DefaultProbability)
	if err != nil {
		// DefaultProbability is a compile-time constant known to be valid.
		panic(err)
	}
	return idx
}

// Add tokenizes text, routes it to the Shard matching its Bloom geometry
// (creating the Shard if none matches yet), inserts it, and returns its
// newly assigned DocID.
//
// Add touches exactly one bucket and the size counter; it either fully
// succeeds or (on an out-of-memory panic from the allocator) does not
// touch the counter at all, so size is never left inconsistent with the
// shards' contents.
func (idx *SearchIndex) Add(text string) DocID {
	features := tokenize(text)
	m, k, err := Estimate(len(features), idx.prob)
	if err != nil {
		// idx.prob was validated by New/Default and never changes afterward.
		panic(err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	s := idx.shardFor(m, k)
	id := idx.size
	s.addMessage(features, id)
	idx.size++
	return id
}

// shardFor returns the shard with geometry (m, k), creating and
// registering one if none exists yet. Must be called with mu held.
func (idx *SearchIndex) shardFor(m, k int) *shard {
	for _, s := range idx.shards {
		if s.m == m && s.k == k {
			return s
		}
	}
	s := newShard(m, k)
	idx.shards = append(idx.shards, s)
	return s
}

// Search returns the DocIDs of documents that are candidates for
// containing every feature of query (a conjunctive, recall-oriented
// match — false positives are possible, false negatives are not).
//
// If query is empty, Search returns every DocID currently in the index.
// If exact is true, query is tokenized as a whole; otherwise it is split
// on whitespace and each token is tokenized independently, with the
// resulting features concatenated. If the resolved feature list is empty,
// Search returns nil.
func (idx *SearchIndex) Search(query string, exact bool) []DocID {
	if query == "" {
		return idx.allIDs()
	}

	features := queryFeatures(query, exact)
	if len(features) == 0 {
		return nil
	}

	return idx.scan(features, (*shard).search)
}

// SearchOr returns the DocIDs of documents that are candidates for
// containing at least one feature of query (a disjunctive,
// recall-oriented match).
//
// query is split on whitespace, each token tokenized independently. If the
// resolved feature list is empty (including when query is empty or all
// whitespace), SearchOr returns nil.
func (idx *SearchIndex) SearchOr(query string) []DocID {
	features := queryFeatures(query, false)
	if len(features) == 0 {
		return nil
	}

	return idx.scan(features, (*shard).searchOr)
}

func queryFeatures(query string, exact bool) []string {
	if exact {
		return tokenize(query)
	}

	var features []string
	for _, tok := range strings.Fields(query) {
		features = append(features, tokenize(tok)...)
	}
	return features
}

// scan fans out scanFn across every shard concurrently, since a shard's
// candidates are independent of every other shard's, then merges each
// shard's candidates into a single sorted, deduplicated result set via a
// roaring.Bitmap — the same structure sourcegraph-zoekt uses to merge
// candidate ID sets (query/query.go, marshal.go). This gives a
// deterministic cross-shard ordering without an explicit post-merge sort.
//
// The read lock is held for the whole scan, not just while snapshotting
// idx.shards: a shard's bucket list can still grow (Add appending a fresh
// bucket) while its sealed buckets remain safe to read concurrently, and
// only the exclusive lock held by Add rules that out while a scan is in
// flight.
func (idx *SearchIndex) scan(features []string, scanFn func(*shard, []string) []DocID) []DocID {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	shards := idx.shards
	if len(shards) == 0 {
		return nil
	}

	partial := make([]*roaring.Bitmap, len(shards))

	var g errgroup.Group
	for i, s := range shards {
		i, s := i, s
		g.Go(func() error {
			bm := roaring.New()
			for _, id := range scanFn(s, features) {
				bm.Add(uint32(id))
			}
			partial[i] = bm
			return nil
		})
	}
	_ = g.Wait() // scanFn never errors; Wait only joins the goroutines.

	merged := roaring.New()
	for _, bm := range partial {
		merged.Or(bm)
	}
	if merged.IsEmpty() {
		return nil
	}

	out := make([]DocID, 0, merged.GetCardinality())
	it := merged.Iterator()
	for it.HasNext() {
		out = append(out, DocID(it.Next()))
	}
	return out
}

// allIDs returns [0, size) as a slice, the result an empty query matches
// every document.
func (idx *SearchIndex) allIDs() []DocID {
	idx.mu.RLock()
	size := idx.size
	idx.mu.RUnlock()

	if size == 0 {
		return nil
	}

	out := make([]DocID, size)
	for i := range out {
		out[i] = DocID(i)
	}
	return out
}

// Size returns the number of documents inserted into idx.
func (idx *SearchIndex) Size() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.size
}

// SizeBytes returns the number of bytes Save would write for the index,
// computed by running the real codec into a counter rather than a
// separate, driftable estimate.
func (idx *SearchIndex) SizeBytes() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var cw countingWriter
	_ = idx.save(&cw)
	return cw.n
}

// Clear resets idx to its empty state: size becomes 0 and every shard is
// dropped. Geometries observed before a Clear are not preserved.
func (idx *SearchIndex) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.shards = nil
	idx.size = 0
}

type countingWriter struct{ n uint64 }

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += uint64(len(p))
	return len(p), nil
}
