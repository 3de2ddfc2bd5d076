// Copyright 2020-2021 the Blobloom authors
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

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// A filter is a per-document Bloom filter of m bits and k hash probes,
// packed as a []uint64 so it can be OR'd wholesale into a bucket's bit
// matrix (see bucket.go).
//
// Unlike greatroar/blobloom's Filter, which takes a pre-hashed uint64 from
// the caller and shards it across cache-line blocks, a filter here hashes
// its own features and is never blocked: its size is fixed by the Shard's
// geometry, one segment of a Bucket's matrix.
type filter struct {
	bits []uint64
	m, k int
}

func newFilter(m, k int) *filter {
	return &filter{
		bits: make([]uint64, wordsFor(m)),
		m:    m,
		k:    k,
	}
}

// add inserts a feature into f, setting k bits derived from probeIndex: a
// fresh hash of the feature is computed for each probe, with the probe
// index mixed in to decorrelate the k bit positions. xxhash is used
// instead of a process-randomized hash so that a filter rebuilt from the
// same feature set in a different process (after a Save/Load round trip)
// produces the exact same bits.
func (f *filter) add(feature string) {
	for i := 0; i < f.k; i++ {
		idx := probeIndex(feature, i, f.m)
		setBit(f.bits, idx)
	}
}

// probeIndex computes the i-th probe's bit index into an m-bit filter for
// feature.
func probeIndex(feature string, i, m int) int {
	var h xxhash.Digest
	h.Reset()
	_, _ = h.WriteString(feature)

	var probe [8]byte
	binary.BigEndian.PutUint64(probe[:], uint64(i))
	_, _ = h.Write(probe[:])

	return int(h.Sum64() % uint64(m))
}
