package ledger

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/latticenet/go-lattice/common/types"
)

// Sideband is metadata stored next to each block: the owning account and
// the block's 1-based height within that account's chain.
type Sideband struct {
	Account types.Address
	Height  uint64
}

const SidebandSize = types.AddressSize + 8

func (sb *Sideband) DbSerialize() ([]byte, error) {
	buf := make([]byte, SidebandSize)
	copy(buf, sb.Account.Bytes())
	binary.BigEndian.PutUint64(buf[types.AddressSize:], sb.Height)
	return buf, nil
}

func (sb *Sideband) DbDeserialize(buf []byte) error {
	if len(buf) != SidebandSize {
		return errors.Errorf("invalid sideband record size %v", len(buf))
	}
	if err := sb.Account.SetBytes(buf[:types.AddressSize]); err != nil {
		return err
	}
	sb.Height = binary.BigEndian.Uint64(buf[types.AddressSize:])
	return nil
}
