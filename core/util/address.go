package util

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// AddressLen is the byte length of every account identity in the engine:
// senders, recipients, mints, stream IDs and escrow accounts all share it.
const AddressLen = 32

// Address is a 32-byte account identity. The engine never interprets the
// bytes; it only compares them and feeds them into derivation hashes.
type Address [AddressLen]byte

// ZeroAddress is the all-zero address. It is never a valid actor, mint or
// recipient.
var ZeroAddress = Address{}

// NewAddressFromBytes copies b into an Address. Fails unless b is exactly
// 32 bytes.
func NewAddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, errors.Errorf("address is %d bytes, want %d", len(b), AddressLen)
	}
	copy(a[:], b)
	return a, nil
}

// NewAddressFromString parses a 64-character hex string into an Address.
func NewAddressFromString(s string) (Address, error) {
	var a Address
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return a, errors.Wrap(err, "parsing address")
	}
	return NewAddressFromBytes(decoded)
}

// String returns the canonical lowercase hex representation.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLen)
	copy(b, a[:])
	return b
}

// IsZero reports whether the address is the zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// MarshalText implements encoding.TextMarshaler so addresses serialize as
// hex strings in CBOR and JSON rather than raw byte arrays.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := NewAddressFromString(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// AddressesToStrings converts a slice of addresses to their hex string
// representation.
func AddressesToStrings(addrs []Address) []string {
	strs := make([]string, len(addrs))
	for i, a := range addrs {
		strs[i] = a.String()
	}
	return strs
}
