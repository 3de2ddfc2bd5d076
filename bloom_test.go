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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterAddIsDeterministic(t *testing.T) {
	f1 := newFilter(256, 4)
	f2 := newFilter(256, 4)

	for _, feat := range []string{"abc", "bcd", "x"} {
		f1.add(feat)
		f2.add(feat)
	}

	assert.Equal(t, f1.bits, f2.bits)
}

func TestFilterHasNoFalseNegatives(t *testing.T) {
	f := newFilter(1024, 6)
	features := []string{"the", "quick", "brown", "fox"}
	for _, feat := range features {
		f.add(feat)
	}

	for _, feat := range features {
		require.True(t, filterHas(f, feat), "feature %q must test positive", feat)
	}
}

func TestFilterDistinctFeaturesDiffer(t *testing.T) {
	f1 := newFilter(512, 4)
	f1.add("hello")

	f2 := newFilter(512, 4)
	f2.add("goodbye")

	assert.NotEqual(t, f1.bits, f2.bits)
}

// filterHas reports whether a feature's bits are all set in f, used only
// to exercise add's bit-setting in tests (the production bucket/shard code
// tests whole query vectors at once, never a single filter membership).
func filterHas(f *filter, feature string) bool {
	for i := 0; i < f.k; i++ {
		if !getBit(f.bits, probeIndex(feature, i, f.m)) {
			return false
		}
	}
	return true
}
