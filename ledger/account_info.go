package ledger

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/latticenet/go-lattice/common/types"
)

// AccountInfo is the per-account record. ConfirmationHeight is the
// watermark: every block of the chain at or below this height is final;
// it only ever moves up.
type AccountInfo struct {
	Head               types.Hash
	BlockCount         uint64
	ConfirmationHeight uint64
}

const accountInfoSize = types.HashSize + 8 + 8

func (ai *AccountInfo) DbSerialize() ([]byte, error) {
	buf := make([]byte, accountInfoSize)
	copy(buf, ai.Head.Bytes())
	binary.BigEndian.PutUint64(buf[types.HashSize:], ai.BlockCount)
	binary.BigEndian.PutUint64(buf[types.HashSize+8:], ai.ConfirmationHeight)
	return buf, nil
}

func (ai *AccountInfo) DbDeserialize(buf []byte) error {
	if len(buf) != accountInfoSize {
		return errors.Errorf("invalid account info record size %v", len(buf))
	}
	if err := ai.Head.SetBytes(buf[:types.HashSize]); err != nil {
		return err
	}
	ai.BlockCount = binary.BigEndian.Uint64(buf[types.HashSize:])
	ai.ConfirmationHeight = binary.BigEndian.Uint64(buf[types.HashSize+8:])
	return nil
}
