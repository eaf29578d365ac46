package access

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/latticenet/go-lattice/chain_db/database"
	"github.com/latticenet/go-lattice/common/types"
	"github.com/latticenet/go-lattice/ledger"
)

// AccountChain stores blocks keyed by hash, with the sideband prepended
// to the block record so one point read serves both.
type AccountChain struct{}

func NewAccountChain() *AccountChain {
	return &AccountChain{}
}

func (ac *AccountChain) blockKey(hash types.Hash) []byte {
	return database.EncodeKey(database.DBKP_ACCOUNT_BLOCK, hash.Bytes())
}

func (ac *AccountChain) GetBlock(r Reader, hash types.Hash) (*ledger.AccountBlock, *ledger.Sideband, error) {
	value, err := r.Get(ac.blockKey(hash))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	sideband := &ledger.Sideband{}
	sidebandLen := ledger.SidebandSize
	if err := sideband.DbDeserialize(value[:sidebandLen]); err != nil {
		return nil, nil, err
	}

	block := &ledger.AccountBlock{}
	if err := block.DbDeserialize(value[sidebandLen:]); err != nil {
		return nil, nil, err
	}
	return block, sideband, nil
}

func (ac *AccountChain) HasBlock(r Reader, hash types.Hash) (bool, error) {
	return r.Has(ac.blockKey(hash))
}

func (ac *AccountChain) PutBlock(w Writer, block *ledger.AccountBlock, sideband *ledger.Sideband) error {
	sidebandValue, err := sideband.DbSerialize()
	if err != nil {
		return err
	}
	blockValue, err := block.DbSerialize()
	if err != nil {
		return err
	}
	return w.Put(ac.blockKey(block.Hash), append(sidebandValue, blockValue...))
}

func (ac *AccountChain) DeleteBlock(w Writer, hash types.Hash) error {
	return w.Delete(ac.blockKey(hash))
}
