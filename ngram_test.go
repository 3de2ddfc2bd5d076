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
)

func TestTokenizeEmpty(t *testing.T) {
	assert.Nil(t, tokenize(""))
}

func TestTokenizeSingleChar(t *testing.T) {
	assert.Equal(t, []string{"a"}, tokenize("a"))
}

func TestTokenizeTwoChars(t *testing.T) {
	features := tokenize("ab")
	assert.Contains(t, features, "ab")
	assert.Contains(t, features, "a")
	assert.Contains(t, features, "b")
	assert.Len(t, features, 3)
}

func TestTokenizeCaseFold(t *testing.T) {
	assert.ElementsMatch(t, tokenize("AB"), tokenize("ab"))
}

func TestTokenizeTrigramsAndDedup(t *testing.T) {
	features := tokenize("aaa")
	// Trigram "aaa" once, bigrams "aa","aa" (duplicated), char "a" once.
	assert.Contains(t, features, "aaa")
	count := 0
	for _, f := range features {
		if f == "a" {
			count++
		}
	}
	assert.Equal(t, 1, count, "character features must be deduplicated")

	bigramCount := 0
	for _, f := range features {
		if f == "aa" {
			bigramCount++
		}
	}
	assert.Equal(t, 2, bigramCount, "bigram features are not deduplicated")
}

func TestTokenizeNoWhitespaceSplitting(t *testing.T) {
	features := tokenize("hello world")
	assert.Contains(t, features, "lo ")
	assert.Contains(t, features, "o w")
}
