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

// wordBits is the width of one element of a bit vector packed as []uint64,
// playing the role that blobloom's fixed-size block played for a single
// cache-line-sized Bloom filter. Here the vector length varies with the
// shard's Bloom geometry, so it is kept as a plain slice rather than a
// fixed-size array.
const wordBits = 64

// wordsFor returns the number of uint64 words needed to hold nbits bits.
func wordsFor(nbits int) int {
	return (nbits + wordBits - 1) / wordBits
}

// setBit sets bit i (0-indexed) of words.
func setBit(words []uint64, i int) {
	words[i/wordBits] |= 1 << (uint(i) % wordBits)
}

// getBit reports whether bit i of words is set.
func getBit(words []uint64, i int) bool {
	return words[i/wordBits]&(1<<(uint(i)%wordBits)) != 0
}
