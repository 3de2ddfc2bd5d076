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

import "unicode"

// tokenize expands text into its feature multiset: all character trigrams,
// then all character bigrams, then the set of distinct characters, all
// case-folded per rune. Bigram and trigram features may repeat; character
// features do not.
//
// Whitespace splitting is not performed here; that is the query path's job
// (see SearchIndex.Search and SearchIndex.SearchOr).
func tokenize(text string) []string {
	runes := make([]rune, 0, len(text))
	for _, r := range text {
		runes = append(runes, unicode.ToLower(r))
	}

	n := len(runes)
	if n == 0 {
		return nil
	}

	features := make([]string, 0, 2*n)

	if n >= 3 {
		for i := 0; i+3 <= n; i++ {
			features = append(features, string(runes[i:i+3]))
		}
	}
	if n >= 2 {
		for i := 0; i+2 <= n; i++ {
			features = append(features, string(runes[i:i+2]))
		}
	}

	seen := make(map[rune]struct{}, n)
	for _, r := range runes {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		features = append(features, string(r))
	}

	return features
}
