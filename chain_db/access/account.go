package access

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/latticenet/go-lattice/chain_db/database"
	"github.com/latticenet/go-lattice/common/types"
	"github.com/latticenet/go-lattice/ledger"
)

var ErrAccountNotFound = errors.New("account not found")

type Account struct{}

func NewAccount() *Account {
	return &Account{}
}

func (a *Account) accountKey(addr types.Address) []byte {
	return database.EncodeKey(database.DBKP_ACCOUNT, addr.Bytes())
}

func (a *Account) GetInfo(r Reader, addr types.Address) (*ledger.AccountInfo, error) {
	value, err := r.Get(a.accountKey(addr))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	info := &ledger.AccountInfo{}
	if err := info.DbDeserialize(value); err != nil {
		return nil, err
	}
	return info, nil
}

func (a *Account) PutInfo(w Writer, addr types.Address, info *ledger.AccountInfo) error {
	value, err := info.DbSerialize()
	if err != nil {
		return err
	}
	return w.Put(a.accountKey(addr), value)
}
