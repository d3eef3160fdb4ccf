// Copyright 2025 Contriboss
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

package semverset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionSort(t *testing.T) {
	a := MustVersion("1.2.3")
	b := MustVersion("1.10.0")
	assert.Negative(t, a.Sort(b))
	assert.Positive(t, b.Sort(a))
	assert.Zero(t, a.Sort(MustVersion("1.2.3")))
}

func TestCaretRange(t *testing.T) {
	cond, err := NewCondition("^1.2.3")
	require.NoError(t, err)

	assert.True(t, cond.Satisfies(MustVersion("1.2.3")))
	assert.True(t, cond.Satisfies(MustVersion("1.9.9")))
	assert.False(t, cond.Satisfies(MustVersion("2.0.0")))
	assert.False(t, cond.Satisfies(MustVersion("1.2.2")))

	set := cond.ToVersionSet()
	assert.True(t, set.Contains(MustVersion("1.2.3")))
	assert.True(t, set.Contains(MustVersion("1.99.0")))
	assert.False(t, set.Contains(MustVersion("2.0.0")))
}

func TestCaretRangeZeroMajor(t *testing.T) {
	cond := MustCondition("^0.2.3")
	set := cond.ToVersionSet()
	assert.True(t, set.Contains(MustVersion("0.2.9")))
	assert.False(t, set.Contains(MustVersion("0.3.0")))
}

func TestTildeRange(t *testing.T) {
	cond := MustCondition("~1.2.3")
	set := cond.ToVersionSet()
	assert.True(t, set.Contains(MustVersion("1.2.9")))
	assert.False(t, set.Contains(MustVersion("1.3.0")))
}

func TestComparatorChainAND(t *testing.T) {
	cond := MustCondition(">=1.0.0, <2.0.0")
	set := cond.ToVersionSet()
	assert.True(t, set.Contains(MustVersion("1.5.0")))
	assert.False(t, set.Contains(MustVersion("2.0.0")))
	assert.False(t, set.Contains(MustVersion("0.9.0")))
}

func TestOrUnion(t *testing.T) {
	cond := MustCondition("1.x || 3.x")
	set := cond.ToVersionSet()
	assert.True(t, set.Contains(MustVersion("1.5.0")))
	assert.True(t, set.Contains(MustVersion("3.0.1")))
	assert.False(t, set.Contains(MustVersion("2.0.0")))
}

func TestHyphenRange(t *testing.T) {
	cond := MustCondition("1.2.3 - 2.0.0")
	set := cond.ToVersionSet()
	assert.True(t, set.Contains(MustVersion("1.2.3")))
	assert.True(t, set.Contains(MustVersion("2.0.0")))
	assert.False(t, set.Contains(MustVersion("2.0.1")))
}

func TestWildcardAny(t *testing.T) {
	cond := MustCondition("*")
	set := cond.ToVersionSet()
	assert.True(t, set.Contains(MustVersion("0.0.1")))
	assert.True(t, set.Contains(MustVersion("99.0.0")))
}

func TestNewConditionRejectsGarbage(t *testing.T) {
	_, err := NewCondition("not-a-constraint!!")
	assert.Error(t, err)
}
