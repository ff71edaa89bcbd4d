// Copyright (c) 2026 the davdisco authors.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package selector provides ordered candidate picking. Discovery tries the
// secure owner name of a service before the insecure one; the Sequential
// selector encodes that strict preference order.
package selector

// Sequential picks elements one-by-one starting from the first element.
type Sequential[T any] struct {
	values []T
	idx    int
}

// NewSequentialSelector initializes a Sequential selector over values,
// starting at the first element.
func NewSequentialSelector[T any](values []T) *Sequential[T] {
	return &Sequential[T]{
		values: values,
		idx:    0,
	}
}

// Pick returns the next available element if one exists. Returns the zero
// value of T once the values are exhausted.
func (s *Sequential[T]) Pick() T {
	var result T
	if s.idx >= len(s.values) {
		return result
	}

	result = s.values[s.idx]
	s.idx++

	return result
}
