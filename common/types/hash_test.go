package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashCmp(t *testing.T) {
	hash1, err := HexToHash("0000000000000000000000000000000000000000000000000000000000000001")
	assert.NoError(t, err)
	hash2, err := HexToHash("0000000000000000000000000000000000000000000000000000000000000002")
	assert.NoError(t, err)

	assert.Equal(t, -1, hash1.Cmp(hash2))
	assert.Equal(t, 1, hash2.Cmp(hash1))
	assert.Equal(t, 0, hash1.Cmp(hash1))
}

func TestHashIsZero(t *testing.T) {
	assert.True(t, Hash{}.IsZero())
	assert.False(t, DataHash([]byte("x")).IsZero())
}

func TestHashHexRoundTrip(t *testing.T) {
	h := DataHash([]byte("round trip"))
	h2, err := HexToHash(h.Hex())
	assert.NoError(t, err)
	assert.Equal(t, h, h2)

	_, err = HexToHash("aabb")
	assert.Error(t, err)
}

func TestHashJson(t *testing.T) {
	h := DataHash([]byte("json"))
	buf, err := json.Marshal(h)
	assert.NoError(t, err)

	var h2 Hash
	assert.NoError(t, json.Unmarshal(buf, &h2))
	assert.Equal(t, h, h2)
}
