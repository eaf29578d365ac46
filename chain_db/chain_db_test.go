package chain_db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticenet/go-lattice/common/types"
	"github.com/latticenet/go-lattice/ledger"
)

func testAddress(seed string) types.Address {
	addr, _ := types.BytesToAddress(types.DataHash([]byte(seed)).Bytes())
	return addr
}

func testBlock(account types.Address, prev types.Hash, height uint64) (*ledger.AccountBlock, *ledger.Sideband) {
	block := &ledger.AccountBlock{
		BlockType: ledger.BlockTypeSend,
		PrevHash:  prev,
		Account:   account,
	}
	block.Hash = block.ComputeHash()
	return block, &ledger.Sideband{Account: account, Height: height}
}

func TestBlockPutGet(t *testing.T) {
	db, err := NewMemChainDb()
	require.NoError(t, err)
	defer db.Close()

	account := testAddress("account")
	block, sideband := testBlock(account, types.Hash{}, 1)

	wtx, err := db.TxBeginWrite()
	require.NoError(t, err)
	require.NoError(t, db.BlockPut(wtx, block, sideband))
	require.NoError(t, wtx.Commit())

	rtx, err := db.TxBeginRead()
	require.NoError(t, err)
	defer rtx.Release()

	gotBlock, gotSideband := db.BlockGet(rtx, block.Hash)
	require.NotNil(t, gotBlock)
	assert.Equal(t, block, gotBlock)
	assert.Equal(t, sideband, gotSideband)

	height, err := db.BlockAccountHeight(rtx, block.Hash)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), height)

	gotAccount, err := db.BlockAccount(rtx, block.Hash)
	assert.NoError(t, err)
	assert.Equal(t, account, gotAccount)

	assert.True(t, db.SourceExists(rtx, block.Hash))
	assert.False(t, db.SourceExists(rtx, types.DataHash([]byte("missing"))))
}

func TestAccountPutGet(t *testing.T) {
	db, err := NewMemChainDb()
	require.NoError(t, err)
	defer db.Close()

	account := testAddress("account")
	info := &ledger.AccountInfo{
		Head:               types.DataHash([]byte("head")),
		BlockCount:         3,
		ConfirmationHeight: 1,
	}

	wtx, err := db.TxBeginWrite()
	require.NoError(t, err)
	require.NoError(t, db.AccountPut(wtx, account, info))
	require.NoError(t, wtx.Commit())

	rtx, err := db.TxBeginRead()
	require.NoError(t, err)
	defer rtx.Release()

	got, err := db.AccountGet(rtx, account)
	require.NoError(t, err)
	assert.Equal(t, info, got)

	_, err = db.AccountGet(rtx, testAddress("unknown"))
	assert.Error(t, err)
}

// A read transaction pins its snapshot: writes committed afterwards stay
// invisible until Refresh.
func TestReadTransactionSnapshot(t *testing.T) {
	db, err := NewMemChainDb()
	require.NoError(t, err)
	defer db.Close()

	account := testAddress("account")
	before := &ledger.AccountInfo{ConfirmationHeight: 1}
	after := &ledger.AccountInfo{ConfirmationHeight: 2}

	wtx, err := db.TxBeginWrite()
	require.NoError(t, err)
	require.NoError(t, db.AccountPut(wtx, account, before))
	require.NoError(t, wtx.Commit())

	rtx, err := db.TxBeginRead()
	require.NoError(t, err)
	defer rtx.Release()

	wtx, err = db.TxBeginWrite()
	require.NoError(t, err)
	require.NoError(t, db.AccountPut(wtx, account, after))
	require.NoError(t, wtx.Commit())

	got, err := db.AccountGet(rtx, account)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.ConfirmationHeight)

	require.NoError(t, rtx.Refresh())
	got, err = db.AccountGet(rtx, account)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.ConfirmationHeight)
}

func TestReadTransactionResetRenew(t *testing.T) {
	db, err := NewMemChainDb()
	require.NoError(t, err)
	defer db.Close()

	rtx, err := db.TxBeginRead()
	require.NoError(t, err)
	defer rtx.Release()

	rtx.Reset()
	_, err = rtx.Has([]byte("k"))
	assert.Error(t, err)

	require.NoError(t, rtx.Renew())
	_, err = rtx.Has([]byte("k"))
	assert.NoError(t, err)
}

func TestSnapshotCount(t *testing.T) {
	db, err := NewMemChainDb()
	require.NoError(t, err)
	defer db.Close()

	base := db.SnapshotCount()
	rtx, err := db.TxBeginRead()
	require.NoError(t, err)
	require.NoError(t, rtx.Refresh())
	rtx.Release()

	assert.Equal(t, base+2, db.SnapshotCount())
}

func TestWriteTransactionDiscard(t *testing.T) {
	db, err := NewMemChainDb()
	require.NoError(t, err)
	defer db.Close()

	account := testAddress("account")

	wtx, err := db.TxBeginWrite()
	require.NoError(t, err)
	require.NoError(t, db.AccountPut(wtx, account, &ledger.AccountInfo{ConfirmationHeight: 9}))
	wtx.Discard()

	rtx, err := db.TxBeginRead()
	require.NoError(t, err)
	defer rtx.Release()

	_, err = db.AccountGet(rtx, account)
	assert.Error(t, err)
}

// Deleting a block must also evict it from the cache, so a subsequent
// BlockGet sees the store, not the stale entry.
func TestBlockDeleteEvictsCache(t *testing.T) {
	db, err := NewMemChainDb()
	require.NoError(t, err)
	defer db.Close()

	account := testAddress("account")
	block, sideband := testBlock(account, types.Hash{}, 1)

	wtx, err := db.TxBeginWrite()
	require.NoError(t, err)
	require.NoError(t, db.BlockPut(wtx, block, sideband))
	require.NoError(t, wtx.Commit())

	rtx, err := db.TxBeginRead()
	require.NoError(t, err)
	got, _ := db.BlockGet(rtx, block.Hash)
	require.NotNil(t, got)
	rtx.Release()

	wtx, err = db.TxBeginWrite()
	require.NoError(t, err)
	require.NoError(t, db.BlockDelete(wtx, block.Hash))
	require.NoError(t, wtx.Commit())

	rtx, err = db.TxBeginRead()
	require.NoError(t, err)
	defer rtx.Release()
	got, _ = db.BlockGet(rtx, block.Hash)
	assert.Nil(t, got)
}
