// Package escrow owns the custody side of the engine: deterministic
// derivation of stream and escrow addresses, the token ledger boundary,
// and the custody manager that moves funds in and out of escrow.
package escrow

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/streamvest/engine-go/core/util"
)

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain separation
// guarantees that stream IDs and escrow addresses can never collide with
// each other even for identical input bytes. The byte values are the
// ASCII domain name, zero-padded to 32 bytes, so the keys stay readable
// in hex dumps.
type domainKey [32]byte

var (
	streamDomainKey = domainKey{
		's', 't', 'r', 'e', 'a', 'm', 'v', 'e', 's', 't', '.',
		's', 't', 'r', 'e', 'a', 'm', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	escrowDomainKey = domainKey{
		's', 't', 'r', 'e', 'a', 'm', 'v', 'e', 's', 't', '.',
		'e', 's', 'c', 'r', 'o', 'w', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// DeriveStreamAddress computes the stream ID from the creation identity.
// The same sender, recipient, mint and start time always map to the same
// ID, so a duplicate creation is detected as a store conflict rather than
// silently minting a second record.
func DeriveStreamAddress(sender, recipient, mint util.Address, startTime int64) util.Address {
	var seed [3*util.AddressLen + 8]byte
	copy(seed[0:], sender[:])
	copy(seed[util.AddressLen:], recipient[:])
	copy(seed[2*util.AddressLen:], mint[:])
	binary.LittleEndian.PutUint64(seed[3*util.AddressLen:], uint64(startTime))
	return keyedHash(streamDomainKey, seed[:])
}

// DeriveEscrowAddress computes the custody account for a stream from the
// stream's own ID. No caller can choose or redirect it, and because the
// ID is itself collision-resistant, no two streams share an escrow.
func DeriveEscrowAddress(streamID util.Address) util.Address {
	return keyedHash(escrowDomainKey, streamID[:])
}

// keyedHash computes the BLAKE3 keyed hash of data under the given domain
// key. NewKeyed only fails for a wrong key length, which the fixed-size
// type rules out.
func keyedHash(key domainKey, data []byte) util.Address {
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("escrow: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var addr util.Address
	copy(addr[:], hasher.Sum(nil))
	return addr
}
