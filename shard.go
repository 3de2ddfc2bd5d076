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

// A shard is an ordered list of buckets that all share the same Bloom
// geometry (m, k). Only the last bucket is open for writes; earlier
// buckets are sealed.
type shard struct {
	m, k    int
	buckets []*bucket
}

func newShard(m, k int) *shard {
	return &shard{m: m, k: k}
}

func (s *shard) openBucket() *bucket {
	if len(s.buckets) == 0 || s.buckets[len(s.buckets)-1].isFull() {
		s.buckets = append(s.buckets, newBucket(s.m, s.k))
	}
	return s.buckets[len(s.buckets)-1]
}

func (s *shard) addMessage(features []string, id DocID) {
	s.openBucket().addMessage(features, id)
}

// queryBits builds the shard-local query fingerprint: an (m,k) Bloom
// filter of features, flattened to its bit vector.
func (s *shard) queryBits(features []string) []uint64 {
	f := newFilter(s.m, s.k)
	for _, feat := range features {
		f.add(feat)
	}
	return f.bits
}

// search returns the concatenation of bucket.searchAnd across all of s's
// buckets, preserving bucket and in-bucket order.
func (s *shard) search(features []string) []DocID {
	query := s.queryBits(features)

	var results []DocID
	for _, b := range s.buckets {
		results = append(results, b.searchAnd(query)...)
	}
	return results
}

// searchOr returns the concatenation of bucket.searchOr across all of s's
// buckets, preserving bucket and in-bucket order.
func (s *shard) searchOr(features []string) []DocID {
	query := s.queryBits(features)

	var results []DocID
	for _, b := range s.buckets {
		results = append(results, b.searchOr(query)...)
	}
	return results
}
