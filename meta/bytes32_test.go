// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meta

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytes32(t *testing.T) {
	hex := strings.Repeat("ab", 32)

	b, err := ParseBytes32("0x" + hex)
	require.NoError(t, err)
	assert.Equal(t, byte(0xab), b[31])
	assert.Equal(t, "0x"+hex, b.String())

	_, err = ParseBytes32(hex)
	assert.NoError(t, err)
	_, err = ParseBytes32("0x" + hex[2:])
	assert.Error(t, err)
	_, err = ParseBytes32("0x" + strings.Repeat("zz", 32))
	assert.Error(t, err)
}

func TestBytes32JSON(t *testing.T) {
	b := BytesToBytes32([]byte("head"))
	data, err := json.Marshal(&b)
	require.NoError(t, err)

	// a value in a map is not addressable and is encoded as text
	byValue, err := json.Marshal(map[string]Bytes32{"d": b})
	require.NoError(t, err)
	assert.Equal(t, `{"d":`+string(data)+`}`, string(byValue))

	var decoded Bytes32
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)
	assert.False(t, decoded.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`"0x01"`), &decoded))
}
