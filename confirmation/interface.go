package confirmation

import (
	"github.com/latticenet/go-lattice/chain_db"
	"github.com/latticenet/go-lattice/chain_db/access"
	"github.com/latticenet/go-lattice/common/types"
	"github.com/latticenet/go-lattice/ledger"
)

// LedgerStore is what the processor needs from the block store.
// *chain_db.ChainDb satisfies it.
type LedgerStore interface {
	TxBeginRead() (*chain_db.ReadTransaction, error)
	TxBeginWrite() (*chain_db.WriteTransaction, error)

	BlockGet(r access.Reader, hash types.Hash) (*ledger.AccountBlock, *ledger.Sideband)
	BlockAccountHeight(r access.Reader, hash types.Hash) (uint64, error)
	BlockAccount(r access.Reader, hash types.Hash) (types.Address, error)
	SourceExists(r access.Reader, hash types.Hash) bool

	AccountGet(r access.Reader, addr types.Address) (*ledger.AccountInfo, error)
	AccountPut(w access.Writer, addr types.Address, info *ledger.AccountInfo) error
}

// BlockConfirmer is notified for every block that transitions to
// confirmed, before its height is written, except blocks the pending
// queue reports as queued or currently processing. election.Elections
// satisfies it.
type BlockConfirmer interface {
	ConfirmBlock(r access.Reader, block *ledger.AccountBlock, sideband *ledger.Sideband)
}
