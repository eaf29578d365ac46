package chain_db

import (
	"github.com/hashicorp/golang-lru"
	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"go.uber.org/atomic"

	"github.com/latticenet/go-lattice/chain_db/access"
	"github.com/latticenet/go-lattice/chain_db/database"
	"github.com/latticenet/go-lattice/common/types"
	"github.com/latticenet/go-lattice/ledger"
)

const blockCacheSize = 10 * 1024

type cachedBlock struct {
	block    *ledger.AccountBlock
	sideband *ledger.Sideband
}

// ChainDb is the ledger store. Reads go through snapshot-backed read
// transactions, writes through the db's exclusive write transaction.
// Blocks are immutable once written, so point reads are served from an
// LRU cache that is only invalidated on delete.
type ChainDb struct {
	db *leveldb.DB

	Ac      *access.AccountChain
	Account *access.Account

	blockCache    *lru.Cache
	snapshotCount atomic.Int64

	log log15.Logger
}

func NewChainDb(dbDir string) (*ChainDb, error) {
	db, err := database.NewLevelDb(dbDir)
	if err != nil {
		return nil, errors.Wrap(err, "open chain db")
	}
	return newChainDb(db)
}

// NewMemChainDb is the in-memory variant used by tests.
func NewMemChainDb() (*ChainDb, error) {
	db, err := database.NewMemLevelDb()
	if err != nil {
		return nil, err
	}
	return newChainDb(db)
}

func newChainDb(db *leveldb.DB) (*ChainDb, error) {
	cache, err := lru.New(blockCacheSize)
	if err != nil {
		return nil, err
	}
	return &ChainDb{
		db:         db,
		Ac:         access.NewAccountChain(),
		Account:    access.NewAccount(),
		blockCache: cache,
		log:        log15.New("module", "chain_db"),
	}, nil
}

func (c *ChainDb) Close() error {
	c.blockCache.Purge()
	return c.db.Close()
}

func (c *ChainDb) TxBeginRead() (*ReadTransaction, error) {
	return newReadTransaction(c.db, &c.snapshotCount)
}

func (c *ChainDb) TxBeginWrite() (*WriteTransaction, error) {
	return newWriteTransaction(c.db)
}

// SnapshotCount reports how many snapshots have been acquired over the
// store's lifetime, including read transaction renewals.
func (c *ChainDb) SnapshotCount() int64 {
	return c.snapshotCount.Load()
}

// BlockGet returns the block and its sideband, or nils when the block is
// not in the store.
func (c *ChainDb) BlockGet(r access.Reader, hash types.Hash) (*ledger.AccountBlock, *ledger.Sideband) {
	if v, ok := c.blockCache.Get(hash); ok {
		cached := v.(*cachedBlock)
		return cached.block, cached.sideband
	}

	block, sideband, err := c.Ac.GetBlock(r, hash)
	if err != nil {
		c.log.Error("GetBlock failed, error is "+err.Error(), "method", "BlockGet", "hash", hash)
		return nil, nil
	}
	if block == nil {
		return nil, nil
	}

	c.blockCache.Add(hash, &cachedBlock{block: block, sideband: sideband})
	return block, sideband
}

func (c *ChainDb) BlockAccountHeight(r access.Reader, hash types.Hash) (uint64, error) {
	_, sideband := c.BlockGet(r, hash)
	if sideband == nil {
		return 0, errors.Errorf("block %s not found", hash)
	}
	return sideband.Height, nil
}

func (c *ChainDb) BlockAccount(r access.Reader, hash types.Hash) (types.Address, error) {
	_, sideband := c.BlockGet(r, hash)
	if sideband == nil {
		return types.Address{}, errors.Errorf("block %s not found", hash)
	}
	return sideband.Account, nil
}

func (c *ChainDb) SourceExists(r access.Reader, hash types.Hash) bool {
	if c.blockCache.Contains(hash) {
		return true
	}
	exists, err := c.Ac.HasBlock(r, hash)
	if err != nil {
		c.log.Error("HasBlock failed, error is "+err.Error(), "method", "SourceExists", "hash", hash)
		return false
	}
	return exists
}

func (c *ChainDb) AccountGet(r access.Reader, addr types.Address) (*ledger.AccountInfo, error) {
	return c.Account.GetInfo(r, addr)
}

func (c *ChainDb) AccountPut(w access.Writer, addr types.Address, info *ledger.AccountInfo) error {
	return c.Account.PutInfo(w, addr, info)
}

func (c *ChainDb) BlockPut(w access.Writer, block *ledger.AccountBlock, sideband *ledger.Sideband) error {
	return c.Ac.PutBlock(w, block, sideband)
}

// BlockDelete drops a block, as the rollback path does when a fork wins.
func (c *ChainDb) BlockDelete(w access.Writer, hash types.Hash) error {
	c.blockCache.Remove(hash)
	return c.Ac.DeleteBlock(w, hash)
}
