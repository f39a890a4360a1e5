// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	tests := []struct {
		block uint32
		index uint32
	}{
		{0, 0},
		{1, 1},
		{math.MaxUint32, 0},
		{7, math.MaxInt32},
		{math.MaxUint32, math.MaxInt32},
	}
	for _, tt := range tests {
		seq := newSequence(tt.block, tt.index)
		assert.Equal(t, tt.block, seq.BlockNumber())
		assert.Equal(t, tt.index, seq.Index())
	}

	assert.Less(t, newSequence(1, math.MaxInt32), newSequence(2, 0))
	assert.Panics(t, func() { newSequence(1, math.MaxInt32+1) })
}
