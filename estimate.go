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

import "math"

// BucketCapacity is the fixed number of documents held by a single Bucket,
// and the unit that every Bloom geometry's bit-length m is rounded up to.
const BucketCapacity = 128

// Estimate maps a feature count n and a target false positive rate p to a
// Bloom geometry (m, k): m is the bit-length of a per-document filter,
// rounded up to a multiple of BucketCapacity; k is the number of hash
// probes.
//
// Estimate mirrors greatroar/blobloom's Optimize in spirit (closed-form
// sizing from a desired error rate) but uses the unblocked standard Bloom
// filter formula directly, since a bucket's bit matrix has no fixed block
// size to round against: m = ceil(-n ln(p) / (ln 2)^2), k = ceil((m/n) ln 2).
//
// n == 0 returns (BucketCapacity, 1). p outside (0, 1) returns
// ErrInvalidProbability.
func Estimate(n int, p float64) (m, k int, err error) {
	if p <= 0 || p >= 1 {
		return 0, 0, ErrInvalidProbability
	}
	if n <= 0 {
		return BucketCapacity, 1, nil
	}

	nf := float64(n)
	mf := math.Ceil(-nf * math.Log(p) / (math.Ln2 * math.Ln2))
	m = int(mf)
	if rem := m % BucketCapacity; rem != 0 {
		m += BucketCapacity - rem
	}

	kf := math.Ceil((float64(m) / nf) * math.Ln2)
	k = int(kf)
	if k < 1 {
		k = 1
	}

	return m, k, nil
}
