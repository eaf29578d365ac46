package ledger

import (
	"github.com/pkg/errors"

	"github.com/latticenet/go-lattice/common/types"
)

type BlockType byte

const (
	BlockTypeSend BlockType = iota + 1
	BlockTypeReceive
	BlockTypeOpen
	BlockTypeChange
	BlockTypeState
)

func (bt BlockType) String() string {
	switch bt {
	case BlockTypeSend:
		return "send"
	case BlockTypeReceive:
		return "receive"
	case BlockTypeOpen:
		return "open"
	case BlockTypeChange:
		return "change"
	case BlockTypeState:
		return "state"
	}
	return "unknown"
}

// AccountBlock is one entry of an account chain. Legacy receive and open
// blocks carry the paired send in SourceHash; state blocks carry it in
// LinkHash when the semantic context is a receive.
type AccountBlock struct {
	BlockType BlockType

	Hash     types.Hash
	PrevHash types.Hash

	Account types.Address

	SourceHash types.Hash
	LinkHash   types.Hash
}

func (ab *AccountBlock) Previous() types.Hash {
	return ab.PrevHash
}

func (ab *AccountBlock) Source() types.Hash {
	return ab.SourceHash
}

func (ab *AccountBlock) Link() types.Hash {
	return ab.LinkHash
}

// ReceiveSource resolves the inbound source of this block: the legacy
// source field when set, the state-block link otherwise. A zero return
// means the block receives nothing.
func (ab *AccountBlock) ReceiveSource() types.Hash {
	if !ab.SourceHash.IsZero() {
		return ab.SourceHash
	}
	return ab.LinkHash
}

// ComputeHash derives the block hash over all identity fields.
func (ab *AccountBlock) ComputeHash() types.Hash {
	return types.DataListHash(
		[]byte{byte(ab.BlockType)},
		ab.PrevHash.Bytes(),
		ab.Account.Bytes(),
		ab.SourceHash.Bytes(),
		ab.LinkHash.Bytes(),
	)
}

const accountBlockSize = 1 + 4*types.HashSize + types.AddressSize

func (ab *AccountBlock) DbSerialize() ([]byte, error) {
	buf := make([]byte, 0, accountBlockSize)
	buf = append(buf, byte(ab.BlockType))
	buf = append(buf, ab.Hash.Bytes()...)
	buf = append(buf, ab.PrevHash.Bytes()...)
	buf = append(buf, ab.Account.Bytes()...)
	buf = append(buf, ab.SourceHash.Bytes()...)
	buf = append(buf, ab.LinkHash.Bytes()...)
	return buf, nil
}

func (ab *AccountBlock) DbDeserialize(buf []byte) error {
	if len(buf) != accountBlockSize {
		return errors.Errorf("invalid account block record size %v", len(buf))
	}
	ab.BlockType = BlockType(buf[0])
	buf = buf[1:]
	if err := ab.Hash.SetBytes(buf[:types.HashSize]); err != nil {
		return err
	}
	buf = buf[types.HashSize:]
	if err := ab.PrevHash.SetBytes(buf[:types.HashSize]); err != nil {
		return err
	}
	buf = buf[types.HashSize:]
	if err := ab.Account.SetBytes(buf[:types.AddressSize]); err != nil {
		return err
	}
	buf = buf[types.AddressSize:]
	if err := ab.SourceHash.SetBytes(buf[:types.HashSize]); err != nil {
		return err
	}
	buf = buf[types.HashSize:]
	return ab.LinkHash.SetBytes(buf[:types.HashSize])
}
