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
	"errors"
	"fmt"
)

// ErrInvalidProbability is returned by New when the requested target false
// positive rate is not in the open interval (0, 1).
var ErrInvalidProbability = errors.New("melt: probability must be in (0, 1)")

// A CodecError wraps a failure from the serialization collaborator (Save or
// Load). The in-memory SearchIndex is never partially mutated by a failed
// round trip: Load only ever builds a fresh index, and a failed Save does
// not modify the index (though it may already have written part of its
// output to the caller's io.Writer).
type CodecError struct {
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("melt: %s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

func codecErrorf(op string, err error) error {
	return &CodecError{Op: op, Err: err}
}
