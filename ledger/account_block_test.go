package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/latticenet/go-lattice/common/types"
)

func testAddress(seed string) types.Address {
	addr, _ := types.BytesToAddress(types.DataHash([]byte(seed)).Bytes())
	return addr
}

func TestAccountBlockSerialize(t *testing.T) {
	block := &AccountBlock{
		BlockType:  BlockTypeReceive,
		PrevHash:   types.DataHash([]byte("prev")),
		Account:    testAddress("account"),
		SourceHash: types.DataHash([]byte("source")),
	}
	block.Hash = block.ComputeHash()

	buf, err := block.DbSerialize()
	assert.NoError(t, err)

	got := &AccountBlock{}
	assert.NoError(t, got.DbDeserialize(buf))
	assert.Equal(t, block, got)

	assert.Error(t, got.DbDeserialize(buf[1:]))
}

func TestReceiveSourcePrecedence(t *testing.T) {
	legacy := &AccountBlock{
		BlockType:  BlockTypeReceive,
		SourceHash: types.DataHash([]byte("send")),
		LinkHash:   types.DataHash([]byte("ignored")),
	}
	assert.Equal(t, legacy.SourceHash, legacy.ReceiveSource())

	state := &AccountBlock{
		BlockType: BlockTypeState,
		LinkHash:  types.DataHash([]byte("send")),
	}
	assert.Equal(t, state.LinkHash, state.ReceiveSource())

	send := &AccountBlock{BlockType: BlockTypeSend}
	assert.True(t, send.ReceiveSource().IsZero())
}

func TestSidebandSerialize(t *testing.T) {
	sb := &Sideband{Account: testAddress("account"), Height: 42}
	buf, err := sb.DbSerialize()
	assert.NoError(t, err)

	got := &Sideband{}
	assert.NoError(t, got.DbDeserialize(buf))
	assert.Equal(t, sb, got)
}

func TestAccountInfoSerialize(t *testing.T) {
	info := &AccountInfo{
		Head:               types.DataHash([]byte("head")),
		BlockCount:         100,
		ConfirmationHeight: 7,
	}
	buf, err := info.DbSerialize()
	assert.NoError(t, err)

	got := &AccountInfo{}
	assert.NoError(t, got.DbDeserialize(buf))
	assert.Equal(t, info, got)
}
