package types

import (
	"crypto/sha256"
	"encoding/binary"

	eth2types "github.com/prysmaticlabs/eth2-types"
	"github.com/prysmaticlabs/go-bitfield"
)

// AttestationData is the voted-on contents of an attestation.
type AttestationData struct {
	Slot            eth2types.Slot
	CommitteeIndex  eth2types.CommitteeIndex
	BeaconBlockRoot [32]byte
}

// Attestation is an aggregate vote gossiped across the network.
type Attestation struct {
	Data            *AttestationData
	AggregationBits bitfield.Bitlist
	Signature       [96]byte
}

// ID returns a digest identifying the attestation contents, used for
// duplicate detection.
func (a *Attestation) ID() [32]byte {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(a.Data.Slot))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(a.Data.CommitteeIndex))
	h.Write(buf[:])
	h.Write(a.Data.BeaconBlockRoot[:])
	h.Write(a.AggregationBits.Bytes())
	h.Write(a.Signature[:])
	var id [32]byte
	h.Sum(id[:0])
	return id
}

// PendingAttestation is an attestation recorded in a beacon state.
type PendingAttestation struct {
	Data            *AttestationData
	AggregationBits bitfield.Bitlist
	InclusionSlot   eth2types.Slot
}
