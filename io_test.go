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
	"bytes"
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Invariant 6: a Save/Load round trip produces an index with identical
// query results.
func TestSaveLoadRoundTrip(t *testing.T) {
	idx, err := New(0.1)
	require.NoError(t, err)

	for i := 0; i < BucketCapacity+10; i++ {
		idx.Add(fmt.Sprintf("document number %d about foxes and dogs", i))
	}
	idx.Add("a second shard entirely, much shorter")

	var buf bytes.Buffer
	require.NoError(t, idx.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	for _, q := range []string{"foxes", "dogs", "second shard", ""} {
		want := sortedCopy(idx.Search(q, false))
		got := sortedCopy(loaded.Search(q, false))
		assert.Equal(t, want, got, "query %q", q)
	}

	assert.Equal(t, idx.Size(), loaded.Size())
}

func TestSaveLoadStructuralEquality(t *testing.T) {
	idx, err := New(0.2)
	require.NoError(t, err)
	idx.Add("hello world")
	idx.Add("goodbye world")

	var buf bytes.Buffer
	require.NoError(t, idx.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	diff := cmp.Diff(idx, loaded,
		cmp.AllowUnexported(SearchIndex{}, shard{}, bucket{}),
		cmpopts.IgnoreFields(SearchIndex{}, "mu"),
	)
	assert.Empty(t, diff)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("not a melt index")))
	assert.Error(t, err)

	var codecErr *CodecError
	assert.ErrorAs(t, err, &codecErr)
}

func TestLoadRejectsTruncatedInput(t *testing.T) {
	idx := Default()
	idx.Add("hello")

	var buf bytes.Buffer
	require.NoError(t, idx.Save(&buf))

	truncated := buf.Bytes()[:buf.Len()-4]
	_, err := Load(bytes.NewReader(truncated))
	assert.Error(t, err)
}

func TestSizeBytesMatchesSave(t *testing.T) {
	idx := Default()
	for i := 0; i < 50; i++ {
		idx.Add(fmt.Sprintf("doc %d", i))
	}

	var buf bytes.Buffer
	require.NoError(t, idx.Save(&buf))

	assert.EqualValues(t, buf.Len(), idx.SizeBytes())
}

func sortedCopy(ids []DocID) []DocID {
	out := append([]DocID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
