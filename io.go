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

import (
	"encoding/binary"
	"io"
	"math"
)

// magic identifies the wire format, analogous to blobloom's own Dump/Load
// header (the "blobloom\x00\x00\x00\x00" literal in blobloom's io_test.go).
const magic = "melt\x00\x00\x00\x00"

// Save writes idx's full logical state — (prob, size, [Shard]), each Shard
// being (m, k, [Bucket]), each Bucket being (m, k, count, messages,
// matrix) — to w.
//
// Save is one compliant codec for the schema spec.md §6 describes; any
// other codec that round-trips the same fields is equally valid. A failed
// Save never mutates idx, and leaves w with whatever partial bytes the
// io.Writer itself already buffered or flushed — melt makes no additional
// promises about partial writes beyond what w itself offers.
func (idx *SearchIndex) Save(w io.Writer) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.save(w)
}

// save is the unlocked implementation shared by Save and SizeBytes.
func (idx *SearchIndex) save(w io.Writer) error {
	bw := &byteWriter{w: w}

	bw.writeString(magic)
	bw.writeFloat64(idx.prob)
	bw.writeUint64(idx.size)
	bw.writeUint64(uint64(len(idx.shards)))

	for _, s := range idx.shards {
		bw.writeUint64(uint64(s.m))
		bw.writeUint64(uint64(s.k))
		bw.writeUint64(uint64(len(s.buckets)))

		for _, b := range s.buckets {
			bw.writeUint64(uint64(b.count))
			for i := 0; i < b.count; i++ {
				bw.writeUint64(b.messages[i])
			}
			for _, word := range b.matrix {
				bw.writeUint64(word)
			}
		}
	}

	if bw.err != nil {
		return codecErrorf("save", bw.err)
	}
	return nil
}

// Load reads a SearchIndex previously written by Save from r.
//
// Load builds the returned index entirely from r before returning; it
// never partially constructs a value that is exposed to the caller on
// error.
func Load(r io.Reader) (*SearchIndex, error) {
	br := &byteReader{r: r}

	got := br.readString(len(magic))
	if br.err == nil && got != magic {
		return nil, codecErrorf("load", io.ErrUnexpectedEOF)
	}

	prob := br.readFloat64()
	size := br.readUint64()
	nshards := br.readUint64()

	shards := make([]*shard, 0, nshards)
	for i := uint64(0); i < nshards && br.err == nil; i++ {
		m := int(br.readUint64())
		k := int(br.readUint64())
		nbuckets := br.readUint64()

		s := newShard(m, k)
		for j := uint64(0); j < nbuckets && br.err == nil; j++ {
			b := newBucket(m, k)
			count := int(br.readUint64())
			for slot := 0; slot < count && br.err == nil; slot++ {
				b.messages[slot] = br.readUint64()
			}
			for w := range b.matrix {
				if br.err != nil {
					break
				}
				b.matrix[w] = br.readUint64()
			}
			b.count = count
			s.buckets = append(s.buckets, b)
		}
		shards = append(shards, s)
	}

	if br.err != nil {
		return nil, codecErrorf("load", br.err)
	}

	return &SearchIndex{shards: shards, size: size, prob: prob}, nil
}

// byteWriter/byteReader are small encoding/binary helpers that latch the
// first error encountered, in the style blobloom's (reconstructed) Dump/
// Load code follows: write/read calls are unconditional, and the caller
// checks err once at the end.

type byteWriter struct {
	w   io.Writer
	err error
}

func (bw *byteWriter) writeUint64(v uint64) {
	if bw.err != nil {
		return
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, bw.err = bw.w.Write(buf[:])
}

func (bw *byteWriter) writeFloat64(v float64) {
	bw.writeUint64(math.Float64bits(v))
}

func (bw *byteWriter) writeString(s string) {
	if bw.err != nil {
		return
	}
	_, bw.err = io.WriteString(bw.w, s)
}

type byteReader struct {
	r   io.Reader
	err error
}

func (br *byteReader) readUint64() uint64 {
	if br.err != nil {
		return 0
	}
	var buf [8]byte
	if _, err := io.ReadFull(br.r, buf[:]); err != nil {
		br.err = err
		return 0
	}
	return binary.BigEndian.Uint64(buf[:])
}

func (br *byteReader) readFloat64() float64 {
	return math.Float64frombits(br.readUint64())
}

func (br *byteReader) readString(n int) string {
	if br.err != nil {
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		br.err = err
		return ""
	}
	return string(buf)
}
