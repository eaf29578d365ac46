package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	lcrypto "github.com/latticenet/go-lattice/crypto"
)

const (
	AddressPrefix       = "lat_"
	AddressSize         = 32
	addressChecksumSize = 5
	addressPrefixLen    = len(AddressPrefix)
	hexAddressLength    = addressPrefixLen + 2*AddressSize + 2*addressChecksumSize
)

// Address identifies an account chain. It is the account's public key.
type Address [AddressSize]byte

var ZERO_ADDRESS = Address{}

func BytesToAddress(b []byte) (Address, error) {
	var a Address
	err := a.SetBytes(b)
	return a, err
}

func HexToAddress(hexStr string) (Address, error) {
	if !IsValidHexAddress(hexStr) {
		return Address{}, fmt.Errorf("not valid hex address %v", hexStr)
	}
	addr, _ := getAddressFromHex(hexStr)
	return addr, nil
}

func IsValidHexAddress(hexStr string) bool {
	if len(hexStr) != hexAddressLength || !strings.HasPrefix(hexStr, AddressPrefix) {
		return false
	}

	address, err := getAddressFromHex(hexStr)
	if err != nil {
		return false
	}

	addressChecksum, err := getAddressChecksumFromHex(hexStr)
	if err != nil {
		return false
	}

	return bytes.Equal(address.checksum(), addressChecksum)
}

func (a *Address) SetBytes(b []byte) error {
	if len(b) != AddressSize {
		return fmt.Errorf("error address size %v", len(b))
	}
	copy(a[:], b)
	return nil
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) Hex() string {
	return AddressPrefix + hex.EncodeToString(a[:]) + hex.EncodeToString(a.checksum())
}

func (a Address) String() string {
	return a.Hex()
}

func (a Address) IsZero() bool {
	return a == ZERO_ADDRESS
}

func (a Address) checksum() []byte {
	return lcrypto.Hash(addressChecksumSize, a[:])
}

func getAddressFromHex(hexStr string) (Address, error) {
	b, err := hex.DecodeString(hexStr[addressPrefixLen : addressPrefixLen+2*AddressSize])
	if err != nil {
		return Address{}, err
	}
	return BytesToAddress(b)
}

func getAddressChecksumFromHex(hexStr string) ([]byte, error) {
	return hex.DecodeString(hexStr[addressPrefixLen+2*AddressSize:])
}

func (a *Address) UnmarshalJSON(input []byte) error {
	if !isString(input) {
		return ErrJsonNotString
	}
	addr, err := HexToAddress(string(trimLeftRightQuotation(input)))
	if err != nil {
		return err
	}
	return a.SetBytes(addr.Bytes())
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
