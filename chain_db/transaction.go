package chain_db

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"go.uber.org/atomic"
)

var errTxReset = errors.New("read transaction is reset")

// ReadTransaction is a stable view of the store backed by a leveldb
// snapshot. It can be suspended with Reset and resumed with Renew, or
// moved to the latest store state with Refresh. The worker never holds
// one across a write transaction.
type ReadTransaction struct {
	db            *leveldb.DB
	snap          *leveldb.Snapshot
	snapshotCount *atomic.Int64
}

func newReadTransaction(db *leveldb.DB, snapshotCount *atomic.Int64) (*ReadTransaction, error) {
	rt := &ReadTransaction{db: db, snapshotCount: snapshotCount}
	if err := rt.Renew(); err != nil {
		return nil, errors.Wrap(err, "tx_begin_read")
	}
	return rt, nil
}

func (rt *ReadTransaction) Get(key []byte) ([]byte, error) {
	if rt.snap == nil {
		return nil, errTxReset
	}
	return rt.snap.Get(key, nil)
}

func (rt *ReadTransaction) Has(key []byte) (bool, error) {
	if rt.snap == nil {
		return false, errTxReset
	}
	return rt.snap.Has(key, nil)
}

// Reset releases the snapshot without ending the transaction's identity.
func (rt *ReadTransaction) Reset() {
	if rt.snap != nil {
		rt.snap.Release()
		rt.snap = nil
	}
}

// Renew re-acquires a snapshot after Reset.
func (rt *ReadTransaction) Renew() error {
	if rt.snap != nil {
		return nil
	}
	snap, err := rt.db.GetSnapshot()
	if err != nil {
		return errors.Wrap(err, "renew read transaction")
	}
	rt.snap = snap
	rt.snapshotCount.Inc()
	return nil
}

// Refresh trades the current snapshot for a fresh one so a long
// traversal does not pin old store state.
func (rt *ReadTransaction) Refresh() error {
	rt.Reset()
	return rt.Renew()
}

// Release ends the transaction. Safe to call after Reset.
func (rt *ReadTransaction) Release() {
	rt.Reset()
}

// WriteTransaction wraps the store's exclusive write transaction.
// Callers either Commit or Discard it; Discard after Commit is a no-op.
type WriteTransaction struct {
	tr   *leveldb.Transaction
	done bool
}

func newWriteTransaction(db *leveldb.DB) (*WriteTransaction, error) {
	tr, err := db.OpenTransaction()
	if err != nil {
		return nil, errors.Wrap(err, "tx_begin_write")
	}
	return &WriteTransaction{tr: tr}, nil
}

func (wt *WriteTransaction) Get(key []byte) ([]byte, error) {
	return wt.tr.Get(key, nil)
}

func (wt *WriteTransaction) Has(key []byte) (bool, error) {
	return wt.tr.Has(key, nil)
}

func (wt *WriteTransaction) Put(key, value []byte) error {
	return wt.tr.Put(key, value, nil)
}

func (wt *WriteTransaction) Delete(key []byte) error {
	return wt.tr.Delete(key, nil)
}

func (wt *WriteTransaction) Commit() error {
	if wt.done {
		return nil
	}
	wt.done = true
	return wt.tr.Commit()
}

func (wt *WriteTransaction) Discard() {
	if wt.done {
		return
	}
	wt.done = true
	wt.tr.Discard()
}
