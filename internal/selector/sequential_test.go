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

package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialPickOrder(t *testing.T) {
	s := NewSequentialSelector([]string{"a", "b", "c"})
	assert.Equal(t, "a", s.Pick())
	assert.Equal(t, "b", s.Pick())
	assert.Equal(t, "c", s.Pick())
	assert.Equal(t, "", s.Pick())
	assert.Equal(t, "", s.Pick())
}

func TestSequentialEmpty(t *testing.T) {
	s := NewSequentialSelector[int](nil)
	assert.Equal(t, 0, s.Pick())
}
