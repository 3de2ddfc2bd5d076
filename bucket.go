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

package melt

// A bucket holds up to BucketCapacity documents. Their per-document Bloom
// filters are transposed into matrix, a single bit vector laid out as
// BucketCapacity consecutive segments of m bits each (segment-major):
// segment j holds the Bloom filter of the j-th document inserted into
// this bucket.
//
// The AND/OR scan works a word at a time rather than bit by bit: since m
// is always a multiple of BucketCapacity (itself a multiple of 64), every
// segment starts and ends on a uint64 boundary, so searchAnd/searchOr can
// test wordsPerSeg words instead of m individual bits.
type bucket struct {
	m, k        int
	wordsPerSeg int
	count       int
	messages    [BucketCapacity]DocID
	matrix      []uint64
}

func newBucket(m, k int) *bucket {
	wordsPerSeg := wordsFor(m)
	return &bucket{
		m:           m,
		k:           k,
		wordsPerSeg: wordsPerSeg,
		matrix:      make([]uint64, wordsPerSeg*BucketCapacity),
	}
}

func (b *bucket) isFull() bool {
	return b.count == BucketCapacity
}

// addMessage computes the per-document Bloom filter of features, ORs its
// bits into the count-th segment of the matrix, records id, and advances
// count. It is undefined behavior to call addMessage when isFull.
func (b *bucket) addMessage(features []string, id DocID) {
	f := newFilter(b.m, b.k)
	for _, feat := range features {
		f.add(feat)
	}

	base := b.count * b.wordsPerSeg
	seg := b.matrix[base : base+b.wordsPerSeg]
	for w, word := range f.bits {
		seg[w] |= word
	}

	b.messages[b.count] = id
	b.count++
}

// searchAnd returns the DocIDs of documents whose Bloom filter contains
// every bit set in query, in ascending in-bucket slot order.
func (b *bucket) searchAnd(query []uint64) []DocID {
	var results []DocID

	for j := 0; j < b.count; j++ {
		base := j * b.wordsPerSeg
		seg := b.matrix[base : base+b.wordsPerSeg]

		matched := true
		for w, qw := range query {
			if qw&^seg[w] != 0 {
				matched = false
				break
			}
		}
		if matched {
			results = append(results, b.messages[j])
		}
	}

	return results
}

// searchOr returns the DocIDs of documents whose Bloom filter contains at
// least one bit set in query, in ascending in-bucket slot order.
func (b *bucket) searchOr(query []uint64) []DocID {
	var results []DocID

	for j := 0; j < b.count; j++ {
		base := j * b.wordsPerSeg
		seg := b.matrix[base : base+b.wordsPerSeg]

		matched := false
		for w, qw := range query {
			if qw&seg[w] != 0 {
				matched = true
				break
			}
		}
		if matched {
			results = append(results, b.messages[j])
		}
	}

	return results
}
